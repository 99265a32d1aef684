package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-api/internal/apperr"
	resp "go-user-api/internal/transport/http/response"
)

// Errors 边界序列化：任何经 c.Error 上抛的错误都在这里变成响应。
// 可识别的 *apperr.Error 按自身 status/code 输出；其余一律 500 固定文案，
// 原始错误只进日志（全系统仅此处允许 error 级别）。
func Errors(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		rid := c.GetString(KeyRequestID)

		var ae *apperr.Error
		if errors.As(err, &ae) {
			if !c.Writer.Written() {
				c.JSON(ae.Status, resp.Error(ae, rid))
			}
			return
		}

		l.Error("unexpected failure",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.String()),
			zap.String("request_id", rid),
			zap.Stack("stack"),
		)
		if !c.Writer.Written() {
			internal := apperr.Internal(err)
			c.JSON(internal.Status, resp.Error(internal, rid))
		}
	}
}
