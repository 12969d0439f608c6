package pkg

import (
	"errors"
	"net/http"
)

// 错误分类，handler 据此映射 HTTP 状态码。
// Forbidden 必须与 Validation 区分开：被驱逐用户的 join 是不可重试的。
type ErrKind int8

const (
	KindValidation ErrKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindExternal
)

type AppError struct {
	Kind ErrKind
	Msg  string
}

func (e *AppError) Error() string { return e.Msg }

func Validation(msg string) *AppError { return &AppError{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) *AppError   { return &AppError{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *AppError   { return &AppError{Kind: KindConflict, Msg: msg} }
func Forbidden(msg string) *AppError  { return &AppError{Kind: KindForbidden, Msg: msg} }
func External(msg string) *AppError   { return &AppError{Kind: KindExternal, Msg: msg} }

// KindOf 取错误分类，非 AppError 返回 0。
func KindOf(err error) ErrKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// HTTPStatus AppError → 状态码，未知错误按 500 处理。
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
