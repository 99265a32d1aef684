package apperr

import "net/http"

// Code 业务错误码（闭集），序列化进响应体
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "RESOURCE_NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeInternal   Code = "INTERNAL_SERVER_ERROR"

	// 传输层拒绝（限流/超限/超时），不属于业务四类
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"
	CodeRequestTooLarge Code = "REQUEST_TOO_LARGE"
	CodeTimeout         Code = "TIMEOUT"
	CodeServerBusy      Code = "SERVER_BUSY"
)

// FieldError 字段级校验错误，field 为点路径或 "root"
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 统一可序列化错误对象，边界中间件按其 Status/Code 输出
type Error struct {
	Code    Code
	Status  int
	Message string
	Details []FieldError
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

func Validation(details []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: "request validation failed",
		Details: details,
	}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: msg}
}

// Internal 固定对外文案，原因仅供服务端日志
func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred",
		cause:   cause,
	}
}

func TooManyRequests() *Error {
	return &Error{Code: CodeTooManyRequests, Status: http.StatusTooManyRequests, Message: "too many requests"}
}

func RequestTooLarge() *Error {
	return &Error{Code: CodeRequestTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
}

func Timeout() *Error {
	return &Error{Code: CodeTimeout, Status: http.StatusGatewayTimeout, Message: "request timed out"}
}

func ServerBusy() *Error {
	return &Error{Code: CodeServerBusy, Status: http.StatusServiceUnavailable, Message: "server busy"}
}
