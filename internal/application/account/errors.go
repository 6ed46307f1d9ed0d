package account

import "errors"

var (
	ErrInvalidImportSource = errors.New("invalid import source")
	ErrReadImportSource    = errors.New("failed to read import source")
	ErrDecodeImportSource  = errors.New("failed to decode import source")
	ErrImportInProgress    = errors.New("import already in progress")
	ErrAcquireImportGuard  = errors.New("failed to acquire import guard")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrGetProfileByID      = errors.New("failed to get profile by id")
)
