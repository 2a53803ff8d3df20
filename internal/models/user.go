package models

import "time"

// User represents application user. Identified by email instead of username.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"size:255;not null"`
	// default currency for accounts created without an explicit one
	FavoriteCurrency Currency `gorm:"size:8;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	LastLoginAt *time.Time
	LastLoginIP string `gorm:"size:64"`
}
