package firebase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

// IdentityClient talks to the Identity Toolkit REST API with a web API key.
type IdentityClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewIdentityClient(client *http.Client, baseURL, apiKey string) *IdentityClient {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultIdentityURL
	}
	return &IdentityClient{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
}

type authResponse struct {
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	NeedConfirmation bool   `json:"needConfirmation"`
}

func (c *IdentityClient) CreateAccount(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := postJSON(ctx, c.client, c.endpoint("accounts:signUp"), passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return "", mapError(err)
	}
	if resp.LocalID == "" {
		return "", ErrUnexpectedResponse
	}
	return resp.LocalID, nil
}

func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (domain.SignedInUser, error) {
	var resp authResponse
	err := postJSON(ctx, c.client, c.endpoint("accounts:signInWithPassword"), passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return domain.SignedInUser{}, mapError(err)
	}
	if resp.LocalID == "" {
		return domain.SignedInUser{}, ErrUnexpectedResponse
	}
	return domain.SignedInUser{UserID: resp.LocalID, Email: resp.Email, Provider: domain.ProviderPassword}, nil
}

func (c *IdentityClient) SignInWithCredential(ctx context.Context, credential domain.Credential) (domain.SignedInUser, error) {
	form := url.Values{}
	form.Set("providerId", string(credential.Provider))
	if credential.IDToken != "" {
		form.Set("id_token", credential.IDToken)
	}
	if credential.AccessToken != "" {
		form.Set("access_token", credential.AccessToken)
	}

	var resp authResponse
	err := postJSON(ctx, c.client, c.endpoint("accounts:signInWithIdp"), idpRequest{
		PostBody:            form.Encode(),
		RequestURI:          "http://localhost",
		ReturnSecureToken:   true,
		ReturnIdpCredential: true,
	}, &resp)
	if err != nil {
		return domain.SignedInUser{}, mapError(err)
	}
	if resp.NeedConfirmation {
		return domain.SignedInUser{}, domain.ErrAccountExistsWithCredential
	}
	if resp.LocalID == "" {
		return domain.SignedInUser{}, ErrUnexpectedResponse
	}

	email := resp.Email
	if email == "" {
		email = credential.Email
	}
	return domain.SignedInUser{UserID: resp.LocalID, Email: email, Provider: credential.Provider}, nil
}

func (c *IdentityClient) endpoint(method string) string {
	return c.baseURL + "/v1/" + method + "?key=" + url.QueryEscape(c.apiKey)
}

// mapError translates Identity Toolkit error codes. Messages look like
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	code, _, _ := strings.Cut(apiErr.Message, " ")
	switch code {
	case "EMAIL_EXISTS":
		return domain.ErrEmailAlreadyInUse
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return domain.ErrInvalidEmail
	case "WEAK_PASSWORD", "MISSING_PASSWORD":
		return domain.ErrWeakPassword
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_IDP_RESPONSE":
		return domain.ErrInvalidCredentials
	case "FEDERATED_USER_ID_ALREADY_LINKED":
		return domain.ErrAccountExistsWithCredential
	default:
		return err
	}
}
