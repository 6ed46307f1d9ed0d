package auth

import domain "github.com/mohammadpnp/account-import/internal/domain/account"

type SessionIssuer interface {
	Issue(user domain.SignedInUser) (string, error)
}

type SignInMetrics interface {
	SignIn(method domain.ProviderID, result string)
}

const (
	resultSuccess   = "success"
	resultFailure   = "failure"
	resultCancelled = "cancelled"
)

type SignInOutput struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
	Alert  string `json:"alert"`
}
