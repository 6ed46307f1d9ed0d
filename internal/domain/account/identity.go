package account

import (
	"fmt"
	"net/mail"
)

type ProviderID string

const (
	ProviderPassword ProviderID = "password"
	ProviderGoogle   ProviderID = "google.com"
	ProviderFacebook ProviderID = "facebook.com"
)

const MinPasswordLength = 6

const (
	LoginFailedAlert          = "Something went wrong while login!"
	FederatedLoginSucceeded   = "Login successful!"
	loginSucceededAlertFormat = "login was successful. Uid:%s"
)

func LoginSucceededAlert(userID string) string {
	return fmt.Sprintf(loginSucceededAlertFormat, userID)
}

func LoggedInAs(email string) string {
	return "Logged in as: " + email
}

type FederatedToken struct {
	IDToken     string
	AccessToken string
}

// Credential is a federated identity after its token was verified with the
// issuing provider.
type Credential struct {
	Provider    ProviderID
	Subject     string
	Email       string
	IDToken     string
	AccessToken string
}

type SignedInUser struct {
	UserID   string
	Email    string
	Provider ProviderID
}

func ValidateSignUp(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
