package account

import "errors"

var (
	ErrInvalidEmail                = errors.New("invalid email")
	ErrWeakPassword                = errors.New("weak password")
	ErrEmailAlreadyInUse           = errors.New("email already in use")
	ErrInvalidCredentials          = errors.New("invalid credentials")
	ErrAccountExistsWithCredential = errors.New("account exists with different credential")
	ErrProfileNotFound             = errors.New("profile not found")
	ErrSelectionCancelled          = errors.New("file selection cancelled")
	ErrUnsupportedFormat           = errors.New("unsupported import format")
	ErrSignInCancelled             = errors.New("sign in cancelled")
)
