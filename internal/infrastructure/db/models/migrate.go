package models

import (
	"fmt"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Account{}, &Profile{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
