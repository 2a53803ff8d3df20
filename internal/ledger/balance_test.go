package ledger

import (
	"errors"
	"testing"

	"platero/internal/models"

	"github.com/shopspring/decimal"
)

func TestAccountBalanceLive(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)
	account := testAccount(t, db, testUser(t, db), "1000.00")

	balance, err := engine.AccountBalance(account, 2021, 6)
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("balance = %s, want 1000.00", balance)
	}
}

func TestAccountBalanceSnapshotOverride(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)
	account := testAccount(t, db, testUser(t, db), "1000.00")

	snapshot := models.AccountLog{
		AccountID: account.ID,
		Year:      2021,
		Month:     5,
		Balance:   decimal.RequireFromString("750.00"),
	}
	if err := db.Create(&snapshot).Error; err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	balance, err := engine.AccountBalance(account, 2021, 5)
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("750.00")) {
		t.Errorf("snapshot balance = %s, want 750.00", balance)
	}

	// other months fall back to the live balance
	balance, err = engine.AccountBalance(account, 2021, 6)
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("live balance = %s, want 1000.00", balance)
	}
}

func TestAccountBalanceDefaultsToToday(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)
	account := testAccount(t, db, testUser(t, db), "1000.00")

	balance, err := engine.AccountBalance(account, 0, 0)
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("balance = %s, want 1000.00", balance)
	}
}

func TestAccountBalanceNeedsAccount(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	if _, err := engine.AccountBalance(nil, 0, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("AccountBalance(nil) error = %v, want ErrValidation", err)
	}
}
