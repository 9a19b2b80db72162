// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/viratco/idea/pkg/errors"
)

// ErrorResponse 错误响应结构，message 始终存在
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Error 返回错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// ErrorWithKind 返回带错误类型的错误响应
func ErrorWithKind(c *gin.Context, httpCode int, message, kind string) {
	c.JSON(httpCode, ErrorResponse{
		Message: message,
		Error:   kind,
		TraceID: c.GetString("trace_id"),
	})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable 返回 503 错误
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}

// StatusOf 应用错误对应的 HTTP 状态码，非应用错误为 500
func StatusOf(err error) int {
	if appErr := apperrors.AsAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
