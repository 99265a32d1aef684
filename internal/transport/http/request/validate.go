package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-user-api/internal/apperr"
	"go-user-api/internal/domain"
	"go-user-api/internal/pagination"
)

// 每个入参形状一个显式校验函数：成功返回类型化值，失败返回
// apperr.Validation（字段错误按声明顺序），业务层拿到的永远是干净入参。

const (
	nameMinLen = 2
	nameMaxLen = 100
)

type userBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func decodeBody(r io.Reader, out *userBody) []apperr.FieldError {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return []apperr.FieldError{{Field: typeErr.Field, Message: "invalid type: expected " + typeErr.Type.String()}}
		}
		return []apperr.FieldError{{Field: "root", Message: "invalid JSON body"}}
	}
	return nil
}

func checkName(name string) (string, *apperr.FieldError) {
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < nameMinLen || n > nameMaxLen {
		return "", &apperr.FieldError{Field: "name", Message: "must be between 2 and 100 characters"}
	}
	return trimmed, nil
}

func checkEmail(email string) (string, *apperr.FieldError) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", &apperr.FieldError{Field: "email", Message: "must be a valid email address"}
	}
	return normalized, nil
}

func checkRole(role string) (domain.Role, *apperr.FieldError) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return "", &apperr.FieldError{Field: "role", Message: "must be one of admin, editor, viewer"}
	}
	return r, nil
}

// ParseCreateUser name/email 必填，role 缺省 viewer
func ParseCreateUser(r io.Reader) (domain.CreateUserInput, error) {
	var body userBody
	if details := decodeBody(r, &body); details != nil {
		return domain.CreateUserInput{}, apperr.Validation(details)
	}

	var details []apperr.FieldError
	in := domain.CreateUserInput{Role: domain.RoleViewer}

	if body.Name == nil {
		details = append(details, apperr.FieldError{Field: "name", Message: "is required"})
	} else if name, fe := checkName(*body.Name); fe != nil {
		details = append(details, *fe)
	} else {
		in.Name = name
	}

	if body.Email == nil {
		details = append(details, apperr.FieldError{Field: "email", Message: "is required"})
	} else if email, fe := checkEmail(*body.Email); fe != nil {
		details = append(details, *fe)
	} else {
		in.Email = email
	}

	if body.Role != nil {
		if role, fe := checkRole(*body.Role); fe != nil {
			details = append(details, *fe)
		} else {
			in.Role = role
		}
	}

	if len(details) > 0 {
		return domain.CreateUserInput{}, apperr.Validation(details)
	}
	return in, nil
}

// ParseUpdateUser 全部可选但至少一个已知字段，空对象视为校验失败
func ParseUpdateUser(r io.Reader) (domain.UpdateUserInput, error) {
	var body userBody
	if details := decodeBody(r, &body); details != nil {
		return domain.UpdateUserInput{}, apperr.Validation(details)
	}
	if body.Name == nil && body.Email == nil && body.Role == nil {
		return domain.UpdateUserInput{}, apperr.Validation([]apperr.FieldError{
			{Field: "root", Message: "at least one of name, email, role must be provided"},
		})
	}

	var details []apperr.FieldError
	var in domain.UpdateUserInput

	if body.Name != nil {
		if name, fe := checkName(*body.Name); fe != nil {
			details = append(details, *fe)
		} else {
			in.Name = &name
		}
	}
	if body.Email != nil {
		if email, fe := checkEmail(*body.Email); fe != nil {
			details = append(details, *fe)
		} else {
			in.Email = &email
		}
	}
	if body.Role != nil {
		if role, fe := checkRole(*body.Role); fe != nil {
			details = append(details, *fe)
		} else {
			in.Role = &role
		}
	}

	if len(details) > 0 {
		return domain.UpdateUserInput{}, apperr.Validation(details)
	}
	return in, nil
}

// ParseListQuery page/limit 字符串强转为整数，非法即 422 而不是静默修正
func ParseListQuery(values url.Values) (pagination.Query, error) {
	q := pagination.Default()
	var details []apperr.FieldError

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			details = append(details, apperr.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			q.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil || limit < 1:
			details = append(details, apperr.FieldError{Field: "limit", Message: "must be a positive integer"})
		case limit > pagination.MaxLimit:
			details = append(details, apperr.FieldError{Field: "limit", Message: "must be at most 100"})
		default:
			q.Limit = limit
		}
	}

	if len(details) > 0 {
		return pagination.Query{}, apperr.Validation(details)
	}
	return q, nil
}

// ParseID 路径参数非空即可
func ParseID(param string) (string, error) {
	id := strings.TrimSpace(param)
	if id == "" {
		return "", apperr.Validation([]apperr.FieldError{{Field: "id", Message: "is required"}})
	}
	return id, nil
}
