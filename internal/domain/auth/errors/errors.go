package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// Refresh rejections stay distinguishable for logs but all match ErrInvalidToken.
var (
	ErrDuplicateEmail = fmt.Errorf("%w: email", ErrAlreadyExists)
	ErrMissingToken   = fmt.Errorf("%w: missing refresh token", ErrInvalidToken)
	ErrRevokedToken   = fmt.Errorf("%w: revoked refresh token", ErrInvalidToken)
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsMissingToken(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsRevokedToken(err error) bool {
	return errors.Is(err, ErrRevokedToken)
}

// RefreshRejection names the concrete reason a refresh token was refused.
func RefreshRejection(err error) string {
	switch {
	case IsMissingToken(err):
		return "missing"
	case IsRevokedToken(err):
		return "revoked"
	case IsInvalidToken(err):
		return "invalid"
	default:
		return ""
	}
}
