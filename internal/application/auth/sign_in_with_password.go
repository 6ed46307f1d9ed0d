package auth

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"go.uber.org/zap"
)

type SignInWithPasswordInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignInWithPassword interface {
	Execute(ctx context.Context, in SignInWithPasswordInput) (SignInOutput, error)
}

type signInWithPassword struct {
	identity domain.IdentityProvider
	sessions SessionIssuer
	watcher  *StateWatcher
	metrics  SignInMetrics
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSignInWithPassword(identity domain.IdentityProvider, sessions SessionIssuer, watcher *StateWatcher, metrics SignInMetrics, logger *zap.Logger) SignInWithPassword {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &signInWithPassword{
		identity: identity,
		sessions: sessions,
		watcher:  watcher,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (uc *signInWithPassword) Execute(ctx context.Context, in SignInWithPasswordInput) (SignInOutput, error) {
	if err := uc.validate.Struct(in); err != nil {
		return SignInOutput{}, ErrInvalidLoginInput
	}

	user, err := uc.identity.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		uc.logger.Warn("error in login", zap.String("email", in.Email), zap.Error(err))
		uc.observe(resultFailure)
		return SignInOutput{Alert: domain.LoginFailedAlert}, fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}

	token, err := uc.sessions.Issue(user)
	if err != nil {
		uc.observe(resultFailure)
		return SignInOutput{Alert: domain.LoginFailedAlert}, fmt.Errorf("%w: %v", ErrIssueSession, err)
	}

	if uc.watcher != nil {
		uc.watcher.Publish(user)
	}
	uc.observe(resultSuccess)

	return SignInOutput{
		UserID: user.UserID,
		Email:  user.Email,
		Token:  token,
		Alert:  domain.LoginSucceededAlert(user.UserID),
	}, nil
}

func (uc *signInWithPassword) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.SignIn(domain.ProviderPassword, result)
	}
}
