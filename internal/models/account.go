package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a balance-bearing account.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeWallet     AccountType = "wallet"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment, AccountTypeWallet:
		return true
	}
	return false
}

// Account is a balance-bearing container owned by one user.
// Balance is only ever mutated through the ledger engine apply/unapply path.
type Account struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:255;not null"`
	Description *string         `gorm:"size:255"`
	Currency    Currency        `gorm:"size:8;not null"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Type        AccountType     `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// AccountLog is an immutable monthly balance snapshot. Rows are written by an
// external batch job; this core only reads them. When a row exists for a
// (year, month) it overrides the live balance for historical queries.
type AccountLog struct {
	ID        uint            `gorm:"primaryKey"`
	AccountID uint            `gorm:"not null;uniqueIndex:idx_account_period"`
	Year      int             `gorm:"not null;uniqueIndex:idx_account_period"`
	Month     int             `gorm:"not null;uniqueIndex:idx_account_period"`
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time

	Account Account `gorm:"constraint:OnDelete:CASCADE"`
}
