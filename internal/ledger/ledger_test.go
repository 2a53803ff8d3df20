package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// immediate transactions + busy timeout so concurrent writers queue
	// instead of failing with SQLITE_BUSY
	path := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
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

	user := &models.User{
		Email:            "test@test.com",
		Name:             "Test",
		PasswordHash:     "x",
		FavoriteCurrency: models.CurrencyPEN,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func testAccount(t *testing.T, db *gorm.DB, user *models.User, balance string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   user.ID,
		Name:     "Cuenta corriente",
		Currency: models.CurrencyPEN,
		Balance:  decimal.RequireFromString(balance),
		Type:     models.AccountTypeChecking,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create test account: %v", err)
	}
	return account
}

func testCategory(t *testing.T, db *gorm.DB, user *models.User, typ models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: user.ID,
		Name:   "Test category",
		Type:   typ,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return category
}

func testDate(t *testing.T) time.Time {
	t.Helper()

	date, err := time.Parse("2006-01-02", "2021-06-02")
	if err != nil {
		t.Fatalf("parse test date: %v", err)
	}
	return date
}

func reloadAccount(t *testing.T, db *gorm.DB, id uint) *models.Account {
	t.Helper()

	var account models.Account
	if err := db.First(&account, id).Error; err != nil {
		t.Fatalf("reload account %d: %v", id, err)
	}
	return &account
}

func reloadTransaction(t *testing.T, db *gorm.DB, id uint) *models.Transaction {
	t.Helper()

	var txn models.Transaction
	if err := db.First(&txn, id).Error; err != nil {
		t.Fatalf("reload transaction %d: %v", id, err)
	}
	return &txn
}

func wantBalance(t *testing.T, db *gorm.DB, accountID uint, want string) {
	t.Helper()

	account := reloadAccount(t, db, accountID)
	if !account.Balance.Equal(decimal.RequireFromString(want)) {
		t.Errorf("account %d balance = %s, want %s", accountID, account.Balance, want)
	}
}
