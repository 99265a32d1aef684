package response

import (
	"go-user-api/internal/apperr"
	"go-user-api/internal/pagination"
)

type Envelope struct {
	Data any `json:"data"`
}

type Paged struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func Data(v any) Envelope { return Envelope{Data: v} }

func Page(v any, meta pagination.Meta) Paged {
	if v == nil {
		v = []any{}
	}
	return Paged{Data: v, Meta: meta}
}

type ErrorDetail struct {
	Code      apperr.Code         `json:"code"`
	Message   string              `json:"message"`
	Details   []apperr.FieldError `json:"details,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// Error 所有错误响应的唯一构造点
func Error(e *apperr.Error, requestID string) ErrorBody {
	return ErrorBody{Error: ErrorDetail{
		Code:      e.Code,
		Message:   e.Message,
		Details:   e.Details,
		RequestID: requestID,
	}}
}
