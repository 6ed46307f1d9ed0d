package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mohammadpnp/account-import/internal/application/auth"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	user       domain.SignedInUser
	err        error
	credential domain.Credential
}

func (s *stubIdentity) CreateAccount(ctx context.Context, email, password string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubIdentity) SignInWithPassword(ctx context.Context, email, password string) (domain.SignedInUser, error) {
	return s.user, s.err
}

func (s *stubIdentity) SignInWithCredential(ctx context.Context, credential domain.Credential) (domain.SignedInUser, error) {
	s.credential = credential
	return s.user, s.err
}

type stubProfiles struct {
	profiles []domain.Profile
	err      error
}

func (s *stubProfiles) PutProfile(ctx context.Context, profile domain.Profile) error {
	s.profiles = append(s.profiles, profile)
	return s.err
}

type stubSessions struct {
	err error
}

func (s stubSessions) Issue(user domain.SignedInUser) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + user.UserID, nil
}

type stubVerifier struct {
	credential domain.Credential
	err        error
	called     bool
}

func (s *stubVerifier) Verify(ctx context.Context, token domain.FederatedToken) (domain.Credential, error) {
	s.called = true
	return s.credential, s.err
}

type stubMetrics struct {
	calls []string
}

func (s *stubMetrics) SignIn(method domain.ProviderID, result string) {
	s.calls = append(s.calls, string(method)+":"+result)
}

func TestSignInWithPasswordSuccess(t *testing.T) {
	watcher := auth.NewStateWatcher()
	metrics := &stubMetrics{}
	identity := &stubIdentity{user: domain.SignedInUser{UserID: "uid-1", Email: "alice@example.com", Provider: domain.ProviderPassword}}
	uc := auth.NewSignInWithPassword(identity, stubSessions{}, watcher, metrics, nil)

	out, err := uc.Execute(context.Background(), auth.SignInWithPasswordInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "uid-1", out.UserID)
	assert.Equal(t, "token-uid-1", out.Token)
	assert.Equal(t, "login was successful. Uid:uid-1", out.Alert)
	require.NotNil(t, watcher.Current())
	assert.Equal(t, "alice@example.com", watcher.Current().Email)
	assert.Equal(t, []string{"password:success"}, metrics.calls)
}

func TestSignInWithPasswordRequiresBothFields(t *testing.T) {
	uc := auth.NewSignInWithPassword(&stubIdentity{}, stubSessions{}, nil, nil, nil)

	_, err := uc.Execute(context.Background(), auth.SignInWithPasswordInput{Email: "alice@example.com"})
	assert.ErrorIs(t, err, auth.ErrInvalidLoginInput)

	_, err = uc.Execute(context.Background(), auth.SignInWithPasswordInput{Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrInvalidLoginInput)
}

func TestSignInWithPasswordFailureCarriesAlert(t *testing.T) {
	watcher := auth.NewStateWatcher()
	uc := auth.NewSignInWithPassword(&stubIdentity{err: domain.ErrInvalidCredentials}, stubSessions{}, watcher, nil, nil)

	out, err := uc.Execute(context.Background(), auth.SignInWithPasswordInput{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrSignInFailed)
	assert.Equal(t, domain.LoginFailedAlert, out.Alert)
	assert.Nil(t, watcher.Current())
}

func TestSignInWithCredentialSuccess(t *testing.T) {
	verifier := &stubVerifier{credential: domain.Credential{Provider: domain.ProviderGoogle, Subject: "sub-1", Email: "bob@example.com"}}
	identity := &stubIdentity{user: domain.SignedInUser{UserID: "uid-2", Email: "bob@example.com", Provider: domain.ProviderGoogle}}
	profiles := &stubProfiles{}
	watcher := auth.NewStateWatcher()
	uc := auth.NewSignInWithCredential(
		map[domain.ProviderID]domain.CredentialVerifier{domain.ProviderGoogle: verifier},
		identity, profiles, stubSessions{}, watcher, nil, nil,
	)

	out, err := uc.Execute(context.Background(), auth.SignInWithCredentialInput{
		Provider: domain.ProviderGoogle,
		Token:    domain.FederatedToken{IDToken: "id-token"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.FederatedLoginSucceeded, out.Alert)
	assert.Equal(t, "sub-1", identity.credential.Subject)
	require.Len(t, profiles.profiles, 1)
	assert.Equal(t, domain.Profile{UserID: "uid-2", Email: "bob@example.com"}, profiles.profiles[0])
	assert.Equal(t, "uid-2", watcher.Current().UserID)
}

func TestSignInWithCredentialProfileFailureIsSwallowed(t *testing.T) {
	verifier := &stubVerifier{credential: domain.Credential{Provider: domain.ProviderFacebook, Subject: "fb-1"}}
	identity := &stubIdentity{user: domain.SignedInUser{UserID: "uid-3"}}
	uc := auth.NewSignInWithCredential(
		map[domain.ProviderID]domain.CredentialVerifier{domain.ProviderFacebook: verifier},
		identity, &stubProfiles{err: errors.New("store down")}, stubSessions{}, nil, nil, nil,
	)

	out, err := uc.Execute(context.Background(), auth.SignInWithCredentialInput{
		Provider: domain.ProviderFacebook,
		Token:    domain.FederatedToken{AccessToken: "fb-token"},
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-3", out.UserID)
}

func TestSignInWithCredentialCancelled(t *testing.T) {
	verifier := &stubVerifier{}
	metrics := &stubMetrics{}
	uc := auth.NewSignInWithCredential(
		map[domain.ProviderID]domain.CredentialVerifier{domain.ProviderFacebook: verifier},
		&stubIdentity{}, &stubProfiles{}, stubSessions{}, nil, metrics, nil,
	)

	out, err := uc.Execute(context.Background(), auth.SignInWithCredentialInput{Provider: domain.ProviderFacebook, Cancelled: true})
	assert.ErrorIs(t, err, domain.ErrSignInCancelled)
	assert.Empty(t, out.Alert)
	assert.False(t, verifier.called)
	assert.Equal(t, []string{"facebook.com:cancelled"}, metrics.calls)
}

func TestSignInWithCredentialFailureHasNoAlert(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("token expired")}
	uc := auth.NewSignInWithCredential(
		map[domain.ProviderID]domain.CredentialVerifier{domain.ProviderGoogle: verifier},
		&stubIdentity{}, &stubProfiles{}, stubSessions{}, nil, nil, nil,
	)

	out, err := uc.Execute(context.Background(), auth.SignInWithCredentialInput{Provider: domain.ProviderGoogle})
	assert.ErrorIs(t, err, auth.ErrFederatedSignInFailed)
	assert.Empty(t, out.Alert)
}

func TestSignInWithCredentialUnsupportedProvider(t *testing.T) {
	uc := auth.NewSignInWithCredential(nil, &stubIdentity{}, &stubProfiles{}, stubSessions{}, nil, nil, nil)

	_, err := uc.Execute(context.Background(), auth.SignInWithCredentialInput{Provider: domain.ProviderGoogle})
	assert.ErrorIs(t, err, auth.ErrUnsupportedProvider)
}
