// Package common defines sentinel errors shared by the repository, service and
// transport layers of gophbank. Callers should use errors.Is to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrInvalidToken is the parent of every bearer-token failure.
	ErrInvalidToken = errors.New("invalid token")

	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrMalformedClaims  = fmt.Errorf("%w: required claims missing", ErrInvalidToken)
)
