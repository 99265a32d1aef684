package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"go-user-api/internal/apperr"
	resp "go-user-api/internal/transport/http/response"
)

func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			e := apperr.Timeout()
			c.AbortWithStatusJSON(e.Status, resp.Error(e, c.GetString(KeyRequestID)))
		}
	}
}
