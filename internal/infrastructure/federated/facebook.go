package federated

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"golang.org/x/oauth2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultGraphURL = "https://graph.facebook.com"

// FacebookVerifier resolves an access token to the Facebook user it belongs to
// by calling the Graph API with it.
type FacebookVerifier struct {
	client   *http.Client
	graphURL string
}

func NewFacebookVerifier(client *http.Client, graphURL string) *FacebookVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	return &FacebookVerifier{client: client, graphURL: strings.TrimRight(graphURL, "/")}
}

type graphUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (v *FacebookVerifier) Verify(ctx context.Context, token domain.FederatedToken) (domain.Credential, error) {
	if token.AccessToken == "" {
		return domain.Credential{}, fmt.Errorf("%w: missing access token", domain.ErrInvalidCredentials)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.client)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.AccessToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.graphURL+"/me?fields=id,email", nil)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("build graph request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("graph me: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read graph response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Credential{}, fmt.Errorf("%w: graph status %d", domain.ErrInvalidCredentials, resp.StatusCode)
	}

	var user graphUser
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.Credential{}, fmt.Errorf("decode graph user: %w", err)
	}
	if user.ID == "" {
		return domain.Credential{}, fmt.Errorf("%w: graph user without id", domain.ErrInvalidCredentials)
	}

	return domain.Credential{
		Provider:    domain.ProviderFacebook,
		Subject:     user.ID,
		Email:       user.Email,
		AccessToken: token.AccessToken,
	}, nil
}
