package services

import (
	"errors"

	"DoctorsPortal/authorization"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidInput = errors.New("invalid input")
	ErrAlreadyPaid  = errors.New("booking already paid with a different transaction")
	ErrForbidden    = authorization.ErrForbidden
)
