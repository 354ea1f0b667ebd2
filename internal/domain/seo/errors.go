package seo

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("conflict")
	ErrCycle                = errors.New("cluster hierarchy cycle")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
	ErrRetryable            = errors.New("retryable")
)
