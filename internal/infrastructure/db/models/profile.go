package models

import "time"

type Profile struct {
	UserID    string    `gorm:"size:128;primaryKey"`
	Email     string    `gorm:"size:320;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Profile) TableName() string {
	return "profiles"
}
