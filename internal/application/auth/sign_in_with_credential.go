package auth

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"go.uber.org/zap"
)

type SignInWithCredentialInput struct {
	Provider  domain.ProviderID
	Token     domain.FederatedToken
	Cancelled bool
}

type SignInWithCredential interface {
	Execute(ctx context.Context, in SignInWithCredentialInput) (SignInOutput, error)
}

type signInWithCredential struct {
	verifiers map[domain.ProviderID]domain.CredentialVerifier
	identity  domain.IdentityProvider
	profiles  domain.ProfileStore
	sessions  SessionIssuer
	watcher   *StateWatcher
	metrics   SignInMetrics
	logger    *zap.Logger
}

func NewSignInWithCredential(
	verifiers map[domain.ProviderID]domain.CredentialVerifier,
	identity domain.IdentityProvider,
	profiles domain.ProfileStore,
	sessions SessionIssuer,
	watcher *StateWatcher,
	metrics SignInMetrics,
	logger *zap.Logger,
) SignInWithCredential {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &signInWithCredential{
		verifiers: verifiers,
		identity:  identity,
		profiles:  profiles,
		sessions:  sessions,
		watcher:   watcher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute signs in through Google or Facebook. Failures are logged and returned
// without an alert text; only success carries one.
func (uc *signInWithCredential) Execute(ctx context.Context, in SignInWithCredentialInput) (SignInOutput, error) {
	logger := uc.logger.With(zap.String("provider", string(in.Provider)))

	if in.Cancelled {
		logger.Info("Login cancelled")
		uc.observe(in.Provider, resultCancelled)
		return SignInOutput{}, domain.ErrSignInCancelled
	}

	verifier, ok := uc.verifiers[in.Provider]
	if !ok || verifier == nil {
		return SignInOutput{}, ErrUnsupportedProvider
	}

	credential, err := verifier.Verify(ctx, in.Token)
	if err != nil {
		return SignInOutput{}, uc.fail(logger, in.Provider, "verify credential failed", err)
	}

	user, err := uc.identity.SignInWithCredential(ctx, credential)
	if err != nil {
		return SignInOutput{}, uc.fail(logger, in.Provider, "sign in with credential failed", err)
	}

	if err := uc.profiles.PutProfile(ctx, domain.Profile{UserID: user.UserID, Email: user.Email}); err != nil {
		logger.Error("add user error", zap.String("user_id", user.UserID), zap.Error(err))
	}

	token, err := uc.sessions.Issue(user)
	if err != nil {
		uc.observe(in.Provider, resultFailure)
		return SignInOutput{}, fmt.Errorf("%w: %v", ErrIssueSession, err)
	}

	if uc.watcher != nil {
		uc.watcher.Publish(user)
	}
	uc.observe(in.Provider, resultSuccess)

	return SignInOutput{
		UserID: user.UserID,
		Email:  user.Email,
		Token:  token,
		Alert:  domain.FederatedLoginSucceeded,
	}, nil
}

func (uc *signInWithCredential) fail(logger *zap.Logger, provider domain.ProviderID, msg string, err error) error {
	logger.Warn(msg, zap.Error(err))
	if errors.Is(err, domain.ErrSignInCancelled) {
		uc.observe(provider, resultCancelled)
		return err
	}
	uc.observe(provider, resultFailure)
	return fmt.Errorf("%w: %v", ErrFederatedSignInFailed, err)
}

func (uc *signInWithCredential) observe(provider domain.ProviderID, result string) {
	if uc.metrics != nil {
		uc.metrics.SignIn(provider, result)
	}
}
