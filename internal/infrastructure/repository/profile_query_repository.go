package repository

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"github.com/mohammadpnp/account-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type ProfileQueryRepository struct {
	db *gorm.DB
}

func NewProfileQueryRepository(db *gorm.DB) *ProfileQueryRepository {
	return &ProfileQueryRepository{db: db}
}

func (r *ProfileQueryRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	var row models.Profile

	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}

	return &domain.Profile{
		UserID:    row.UserID,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}, nil
}
