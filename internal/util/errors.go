package util

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidOAuthState  = errors.New("invalid oauth state")
	ErrOAuthDisabled      = errors.New("oauth provider not configured")
)

type notFoundError struct {
	resource string
}

func (e *notFoundError) Error() string { return e.resource + " not found" }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFoundError 返回带资源名的 ErrNotFound，例如 "course not found"
func NotFoundError(resource string) error {
	return &notFoundError{resource: resource}
}

// ValidationError 字段级校验错误，字段名使用 JSON 名称
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
