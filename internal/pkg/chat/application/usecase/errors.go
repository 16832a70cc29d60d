package usecase

import "errors"

// Sentinel errors mapped to HTTP statuses / socket error frames by the
// presentation layer.
var (
	ErrValidation  = errors.New("chat use case validation error")
	ErrNotFound    = errors.New("chat use case not found")
	ErrPersistence = errors.New("chat use case persistence error")
)
