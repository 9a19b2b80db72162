// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeUnknown         ErrorCode = "1000"
	CodeInvalidParam    ErrorCode = "1001"
	CodeNotFound        ErrorCode = "1004"
	CodeTooManyRequests ErrorCode = "1006"
	CodeInternalError   ErrorCode = "1007"

	// 配置错误 (2xxx)
	CodeConfiguration ErrorCode = "2001"

	// 上游服务错误 (3xxx)
	CodeUpstreamShape   ErrorCode = "3001"
	CodeUpstreamHTTP    ErrorCode = "3002"
	CodeUpstreamTimeout ErrorCode = "3003"

	// 生成结果错误 (4xxx)
	CodeIncompleteContent ErrorCode = "4001"
	CodeExtraction        ErrorCode = "4002"
)

// Reason 错误子类型，用于区分同一错误码下的具体原因
type Reason string

// 上游响应结构错误
const (
	ReasonEmptyResponse    Reason = "empty_response"
	ReasonMissingChoices   Reason = "missing_choices"
	ReasonMissingMessage   Reason = "missing_message"
	ReasonNonStringContent Reason = "non_string_content"
)

// 上游 HTTP 错误
const (
	ReasonUnauthorized    Reason = "unauthorized"
	ReasonPaymentRequired Reason = "payment_required"
	ReasonModelNotFound   Reason = "model_not_found"
	ReasonRateLimited     Reason = "rate_limited"
	ReasonOther           Reason = "other"
)

// 生成内容错误
const (
	ReasonMissingSections   Reason = "missing_sections"
	ReasonEmptyIntroduction Reason = "empty_introduction"
	ReasonEmptyMetrics      Reason = "empty_metrics"
)

var codeNames = map[ErrorCode]string{
	CodeUnknown:           "unknown",
	CodeInvalidParam:      "invalid_param",
	CodeNotFound:          "not_found",
	CodeTooManyRequests:   "too_many_requests",
	CodeInternalError:     "internal",
	CodeConfiguration:     "configuration",
	CodeUpstreamShape:     "upstream_shape",
	CodeUpstreamHTTP:      "upstream_http",
	CodeUpstreamTimeout:   "timeout",
	CodeIncompleteContent: "incomplete_content",
	CodeExtraction:        "extraction",
}

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Reason     Reason    `json:"reason,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	head := string(e.Code)
	if e.Reason != "" {
		head += "/" + string(e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", head, e.Message, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", head, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", head, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind 返回稳定的机器可读类型，如 upstream_http/payment_required
func (e *AppError) Kind() string {
	name, ok := codeNames[e.Code]
	if !ok {
		name = codeNames[CodeUnknown]
	}
	if e.Reason != "" {
		return name + "/" + string(e.Reason)
	}
	return name
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithReason 设置错误子类型
func (e *AppError) WithReason(reason Reason) *AppError {
	e.Reason = reason
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Newf 创建带格式化消息的应用错误
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
// 生成链路上的失败统一返回 500，仅调用方输入错误返回 4xx
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 转换为应用错误
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr := AsAppError(err)
	return appErr != nil && appErr.Code == code
}

// HasReason 判断错误链中的应用错误是否为指定子类型
func HasReason(err error, reason Reason) bool {
	appErr := AsAppError(err)
	return appErr != nil && appErr.Reason == reason
}

// UserMessage 返回面向用户的错误消息，非应用错误使用 fallback
func UserMessage(err error, fallback string) string {
	if appErr := AsAppError(err); appErr != nil && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Kind 返回错误类型，非应用错误返回 internal
func Kind(err error) string {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Kind()
	}
	return codeNames[CodeInternalError]
}

// 上游错误的用户提示
const (
	MsgMissingAPIKey   = "OpenRouter API key is not configured"
	MsgUnauthorized    = "Invalid OpenRouter API key. Please check your API key configuration."
	MsgPaymentRequired = "OpenRouter API requires credits. Please visit https://openrouter.ai/settings/credits to add credits to your account."
	MsgModelNotFound   = "The selected AI model is not available. Trying fallback models..."
	MsgRateLimited     = "Too many requests. Please wait a moment."
	MsgTimeout         = "Request timeout. Please try again."
	MsgUpstreamDefault = "OpenRouter API error"
)

// NewConfigurationError 缺少凭据等配置错误
func NewConfigurationError(message string) *AppError {
	return New(CodeConfiguration, message)
}

// NewUpstreamShapeError 上游响应结构不符合约定
func NewUpstreamShapeError(reason Reason, message string) *AppError {
	return New(CodeUpstreamShape, message).WithReason(reason)
}

// NewTimeoutError 上游调用超时
func NewTimeoutError(err error) *AppError {
	return Wrap(err, CodeUpstreamTimeout, MsgTimeout)
}

// NewUpstreamHTTPError 根据上游状态码构造错误，upstreamMsg 为上游返回的错误描述
func NewUpstreamHTTPError(status int, upstreamMsg string) *AppError {
	var appErr *AppError
	switch status {
	case http.StatusUnauthorized:
		appErr = New(CodeUpstreamHTTP, MsgUnauthorized).WithReason(ReasonUnauthorized)
	case http.StatusPaymentRequired:
		appErr = New(CodeUpstreamHTTP, MsgPaymentRequired).WithReason(ReasonPaymentRequired)
	case http.StatusNotFound:
		appErr = New(CodeUpstreamHTTP, MsgModelNotFound).WithReason(ReasonModelNotFound)
	case http.StatusTooManyRequests:
		appErr = New(CodeUpstreamHTTP, MsgRateLimited).WithReason(ReasonRateLimited)
	default:
		msg := upstreamMsg
		if msg == "" {
			msg = MsgUpstreamDefault
		}
		appErr = New(CodeUpstreamHTTP, msg).WithReason(ReasonOther)
	}
	return appErr.WithDetail(fmt.Sprintf("upstream status %d: %s", status, upstreamMsg))
}

// NewIncompleteContentError 模型输出缺少必要内容
func NewIncompleteContentError(reason Reason, message string) *AppError {
	return New(CodeIncompleteContent, message).WithReason(reason)
}

// NewExtractionError 未能从模型输出中提取任何指标
func NewExtractionError(message string) *AppError {
	return New(CodeExtraction, message)
}

// NewInvalidParamError 调用方参数错误
func NewInvalidParamError(message string) *AppError {
	return New(CodeInvalidParam, message)
}
