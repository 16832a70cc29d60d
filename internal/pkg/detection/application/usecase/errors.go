package usecase

import "errors"

var (
	ErrValidation    = errors.New("detection: validation")
	ErrNotFound      = errors.New("detection: not found")
	ErrNotAuthorized = errors.New("detection: not authorized")
	ErrUpstream      = errors.New("detection: upstream")
	ErrPersistence   = errors.New("detection: persistence")
)
