package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/viratco/idea/internal/interfaces/http/dto"
	"github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
)

// Recovery Panic 恢复中间件，堆栈只写日志不返回给调用方
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Message: "Internal server error",
					Error:   errors.Kind(nil),
					TraceID: c.GetString("trace_id"),
				})
			}
		}()

		c.Next()
	}
}
