package federated

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const DefaultGoogleIssuer = "https://accounts.google.com"

// GoogleVerifier checks Google ID tokens against the issuer keys and the
// configured OAuth client ID.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier discovers the issuer configuration over the network.
func NewGoogleVerifier(ctx context.Context, issuer, clientID string) (*GoogleVerifier, error) {
	if issuer == "" {
		issuer = DefaultGoogleIssuer
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", issuer, err)
	}
	return &GoogleVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func NewGoogleVerifierWithKeySet(issuer, clientID string, keys oidc.KeySet) *GoogleVerifier {
	return &GoogleVerifier{verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: clientID})}
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, token domain.FederatedToken) (domain.Credential, error) {
	if token.IDToken == "" {
		return domain.Credential{}, fmt.Errorf("%w: missing id token", domain.ErrInvalidCredentials)
	}

	idToken, err := v.verifier.Verify(ctx, token.IDToken)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	return domain.Credential{
		Provider:    domain.ProviderGoogle,
		Subject:     idToken.Subject,
		Email:       claims.Email,
		IDToken:     token.IDToken,
		AccessToken: token.AccessToken,
	}, nil
}
