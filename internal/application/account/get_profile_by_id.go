package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

// Identity provider user IDs are either UUIDs (postgres backend) or opaque
// 28 character Firebase UIDs.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type GetProfileByIDInput struct {
	ID string
}

type GetProfileByIDOutput struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type GetProfileByID interface {
	Execute(ctx context.Context, in GetProfileByIDInput) (GetProfileByIDOutput, error)
}

type getProfileByID struct {
	repo domain.ProfileQueryRepository
}

func NewGetProfileByID(repo domain.ProfileQueryRepository) GetProfileByID {
	return &getProfileByID{repo: repo}
}

func (uc *getProfileByID) Execute(ctx context.Context, in GetProfileByIDInput) (GetProfileByIDOutput, error) {
	if !userIDPattern.MatchString(in.ID) {
		return GetProfileByIDOutput{}, ErrInvalidUserID
	}

	profile, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return GetProfileByIDOutput{}, ErrProfileNotFound
		}
		return GetProfileByIDOutput{}, fmt.Errorf("%w: %v", ErrGetProfileByID, err)
	}

	return GetProfileByIDOutput{
		UserID:    profile.UserID,
		Email:     profile.Email,
		CreatedAt: profile.CreatedAt,
	}, nil
}
