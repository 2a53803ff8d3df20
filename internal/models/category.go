package models

import "time"

// CategoryType marks whether a category tags incoming or outgoing money.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents income/expense category. Categories form a tree through
// ParentID; a parent cannot be deleted while children reference it.
type Category struct {
	ID          uint         `gorm:"primaryKey"`
	UserID      uint         `gorm:"index;not null"`
	Name        string       `gorm:"size:255;not null"`
	Description *string      `gorm:"size:255"`
	Type        CategoryType `gorm:"size:16;index;not null"`
	ParentID    *uint        `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User   User      `gorm:"constraint:OnDelete:CASCADE"`
	Parent *Category `gorm:"constraint:OnDelete:RESTRICT"`
}
