package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammadpnp/account-import/internal/application/auth"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const currentUserKey = "current_user"

// SessionParser turns a bearer token back into the signed in user.
type SessionParser interface {
	Parse(token string) (domain.SignedInUser, error)
}

type AuthHandler struct {
	password   auth.SignInWithPassword
	credential auth.SignInWithCredential
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

type facebookLoginRequest struct {
	AccessToken string `json:"access_token"`
	Cancelled   bool   `json:"cancelled"`
}

type cancelledResponse struct {
	Cancelled bool `json:"cancelled"`
}

type meResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Alert    string `json:"alert"`
}

func NewAuthHandler(password auth.SignInWithPassword, credential auth.SignInWithCredential) *AuthHandler {
	return &AuthHandler{password: password, credential: credential}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	out, err := h.password.Execute(c.Request().Context(), auth.SignInWithPasswordInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidLoginInput) {
			return writeError(c, http.StatusBadRequest, "invalid_login", "email and password are required")
		}
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrIssueSession) {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, apiResponse{Error: &errorBody{
			Code:    "sign_in_failed",
			Message: "sign in failed",
			Alert:   out.Alert,
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *AuthHandler) LoginWithGoogle(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	return h.federated(c, auth.SignInWithCredentialInput{
		Provider: domain.ProviderGoogle,
		Token:    domain.FederatedToken{IDToken: req.IDToken, AccessToken: req.AccessToken},
	})
}

func (h *AuthHandler) LoginWithFacebook(c echo.Context) error {
	var req facebookLoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	return h.federated(c, auth.SignInWithCredentialInput{
		Provider:  domain.ProviderFacebook,
		Token:     domain.FederatedToken{AccessToken: req.AccessToken},
		Cancelled: req.Cancelled,
	})
}

func (h *AuthHandler) federated(c echo.Context, in auth.SignInWithCredentialInput) error {
	out, err := h.credential.Execute(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSignInCancelled):
			return c.JSON(http.StatusOK, apiResponse{Data: cancelledResponse{Cancelled: true}})
		case errors.Is(err, auth.ErrUnsupportedProvider):
			return writeError(c, http.StatusNotImplemented, "unsupported_provider", "sign in provider is not configured")
		case errors.Is(err, auth.ErrIssueSession):
			return writeError(c, http.StatusInternalServerError, "internal_error", "failed to issue session")
		default:
			return writeError(c, http.StatusUnauthorized, "sign_in_failed", "sign in failed")
		}
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := c.Get(currentUserKey).(domain.SignedInUser)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "missing session")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: meResponse{
		UserID:   user.UserID,
		Email:    user.Email,
		Provider: string(user.Provider),
		Alert:    domain.LoggedInAs(user.Email),
	}})
}

// RequireSession validates the bearer token and stores the user on the
// request context.
func RequireSession(parser SessionParser) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			user, err := parser.Parse(key)
			if err != nil {
				return false, nil
			}
			c.Set(currentUserKey, user)
			return true, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return writeError(c, http.StatusUnauthorized, "unauthorized", "invalid or missing session")
		},
	})
}
