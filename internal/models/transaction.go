package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the creation-time classification of a transaction.
type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeTransfer, TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// LogicType is the balance-direction classification: income adds to the
// account balance, expense subtracts from it. For transfers each leg carries
// the opposite logic type.
type LogicType string

const (
	LogicTypeIncome  LogicType = "income"
	LogicTypeExpense LogicType = "expense"
)

// Transaction is a single balance-affecting event. For transfers, two rows
// exist, mutually referencing each other through LinkedTransactionID.
type Transaction struct {
	ID                  uint            `gorm:"primaryKey"`
	Amount              decimal.Decimal `gorm:"type:decimal(14,2);not null"` // always positive
	Description         *string         `gorm:"size:255"`
	Date                time.Time       `gorm:"index;not null"`
	CategoryID          *uint           `gorm:"index"`
	AccountID           uint            `gorm:"index;not null"`
	LinkedTransactionID *uint           `gorm:"uniqueIndex"`
	Type                TransactionType `gorm:"size:16;index;not null"`
	LogicType           LogicType       `gorm:"size:16;not null"`
	IsPaid              bool            `gorm:"not null"` // whether the balance effect has been applied
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Account           Account      `gorm:"constraint:OnDelete:CASCADE"`
	Category          *Category    `gorm:"constraint:OnDelete:RESTRICT"`
	LinkedTransaction *Transaction `gorm:"constraint:OnDelete:SET NULL"`
}
