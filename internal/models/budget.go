package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a planned-spending window owned by one user. Per-category targets
// hang off it as BudgetCategory rows.
type Budget struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User       User             `gorm:"constraint:OnDelete:CASCADE"`
	Categories []BudgetCategory `gorm:"constraint:OnDelete:CASCADE"`
}

// BudgetCategory attaches a planned-spending target for one category to a budget.
type BudgetCategory struct {
	ID              uint            `gorm:"primaryKey"`
	BudgetID        uint            `gorm:"not null;uniqueIndex:idx_budget_category"`
	CategoryID      uint            `gorm:"not null;uniqueIndex:idx_budget_category"`
	PlannedSpending decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt       time.Time

	Category Category `gorm:"constraint:OnDelete:RESTRICT"`
}
