package pkg

import (
	"errors"
	"net/http"
)

// 业务错误种类；引擎层只返回这几种之一或内部错误
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrTooManyBusinesses = errors.New("too many businesses")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Status 映射错误种类到 HTTP 状态码，未知错误视为内部错误
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict), errors.Is(err, ErrTooManyBusinesses):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Public 返回可以对外展示的错误文案，内部错误不外泄原始信息
func Public(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
