package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-user-api/internal/apperr"
	resp "go-user-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c, 1); err != nil {
			e := apperr.ServerBusy()
			c.AbortWithStatusJSON(e.Status, resp.Error(e, c.GetString(KeyRequestID)))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
