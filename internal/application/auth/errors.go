package auth

import "errors"

var (
	ErrInvalidLoginInput     = errors.New("email and password are required")
	ErrSignInFailed          = errors.New("sign in failed")
	ErrUnsupportedProvider   = errors.New("unsupported sign in provider")
	ErrFederatedSignInFailed = errors.New("federated sign in failed")
	ErrIssueSession          = errors.New("failed to issue session")
)
