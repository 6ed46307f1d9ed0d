package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"github.com/mohammadpnp/account-import/internal/infrastructure/db/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// AccountRepository is the postgres identity backend. Passwords are stored as
// bcrypt hashes and emails are unique across all providers.
type AccountRepository struct {
	db   *gorm.DB
	cost int
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy that hashes with the given bcrypt cost.
func (r *AccountRepository) WithHashCost(cost int) *AccountRepository {
	return &AccountRepository{db: r.db, cost: cost}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if err := domain.ValidateSignUp(email, password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	normalized := normalizeEmail(email)
	passwordHash := string(hash)
	row := models.Account{
		ID:           uuid.NewString(),
		Email:        &normalized,
		PasswordHash: &passwordHash,
		Provider:     string(domain.ProviderPassword),
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return "", domain.ErrEmailAlreadyInUse
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	return row.ID, nil
}

func (r *AccountRepository) SignInWithPassword(ctx context.Context, email, password string) (domain.SignedInUser, error) {
	var row models.Account

	err := r.db.WithContext(ctx).
		Where("email = ? AND provider = ?", normalizeEmail(email), string(domain.ProviderPassword)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SignedInUser{}, domain.ErrInvalidCredentials
		}
		return domain.SignedInUser{}, fmt.Errorf("find account: %w", err)
	}

	if row.PasswordHash == nil {
		return domain.SignedInUser{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*row.PasswordHash), []byte(password)); err != nil {
		return domain.SignedInUser{}, domain.ErrInvalidCredentials
	}

	return signedIn(row), nil
}

// SignInWithCredential finds the account linked to a verified federated
// identity, creating it on first use. An email already owned by another
// provider is rejected.
func (r *AccountRepository) SignInWithCredential(ctx context.Context, credential domain.Credential) (domain.SignedInUser, error) {
	if credential.Subject == "" {
		return domain.SignedInUser{}, domain.ErrInvalidCredentials
	}

	var row models.Account
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_subject = ?", string(credential.Provider), credential.Subject).
		First(&row).Error
	if err == nil {
		return signedIn(row), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SignedInUser{}, fmt.Errorf("find federated account: %w", err)
	}

	subject := credential.Subject
	row = models.Account{
		ID:              uuid.NewString(),
		Provider:        string(credential.Provider),
		ProviderSubject: &subject,
	}
	if credential.Email != "" {
		email := normalizeEmail(credential.Email)
		row.Email = &email
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.SignedInUser{}, domain.ErrAccountExistsWithCredential
		}
		return domain.SignedInUser{}, fmt.Errorf("create federated account: %w", err)
	}

	return signedIn(row), nil
}

func signedIn(row models.Account) domain.SignedInUser {
	user := domain.SignedInUser{UserID: row.ID, Provider: domain.ProviderID(row.Provider)}
	if row.Email != nil {
		user.Email = *row.Email
	}
	return user
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
