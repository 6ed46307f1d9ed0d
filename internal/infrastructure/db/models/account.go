package models

import "time"

// Account is the local identity record used by the postgres identity backend.
// Password accounts carry an email and hash, federated accounts carry the
// provider subject.
type Account struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	Email           *string `gorm:"size:320;uniqueIndex"`
	PasswordHash    *string `gorm:"type:text"`
	Provider        string  `gorm:"size:32;not null;uniqueIndex:idx_accounts_provider_subject"`
	ProviderSubject *string `gorm:"size:255;uniqueIndex:idx_accounts_provider_subject"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Account) TableName() string {
	return "accounts"
}
