package service

import (
	"path/filepath"
	"testing"
	"time"

	"platero/internal/ledger"
	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.AccountLog{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.BudgetCategory{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func testUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	users := NewUserService(db, models.CurrencyPEN)
	user, err := users.Create("test@test.com", "Test", "x", "")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func testExpense(t *testing.T, db *gorm.DB, account *models.Account, category *models.Category, amount string) *models.Transaction {
	t.Helper()

	engine := ledger.NewEngine(db)
	txn, err := engine.CreateExpense(ledger.CreateParams{
		Amount:   decimal.RequireFromString(amount),
		Date:     testDate(t),
		Account:  account,
		Category: category,
		IsPaid:   true,
	})
	if err != nil {
		t.Fatalf("create test expense: %v", err)
	}
	return txn
}

func testDate(t *testing.T) time.Time {
	t.Helper()

	date, err := time.Parse("2006-01-02", "2021-06-02")
	if err != nil {
		t.Fatalf("parse test date: %v", err)
	}
	return date
}
