package usecase

import "errors"

var (
	ErrValidation    = errors.New("bus: validation")
	ErrNotFound      = errors.New("bus: not found")
	ErrNotAuthorized = errors.New("bus: not authorized")
	ErrConflict      = errors.New("bus: conflict")
	ErrPersistence   = errors.New("bus: persistence")
)
