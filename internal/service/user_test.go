package service

import (
	"errors"
	"testing"
	"time"

	"platero/internal/ledger"
	"platero/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateUser(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)

	user, err := users.Create("Maria@Test.com", "Maria", "hash", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Email != "maria@test.com" {
		t.Errorf("email = %q, want lowercased maria@test.com", user.Email)
	}
	if user.FavoriteCurrency != models.CurrencyPEN {
		t.Errorf("favorite currency = %s, want configured default PEN", user.FavoriteCurrency)
	}
}

func TestCreateUserWithoutEmail(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)

	if _, err := users.Create("", "Maria", "hash", ""); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("Create() without email: error = %v, want ErrValidation", err)
	}
}

func TestCreateUserFavoriteCurrency(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)

	user, err := users.Create("maria@test.com", "Maria", "hash", models.CurrencyUSD)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.FavoriteCurrency != models.CurrencyUSD {
		t.Errorf("favorite currency = %s, want USD", user.FavoriteCurrency)
	}
}

func TestAddAccount(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	description := "Mi primera cuenta de ahorros"
	account, err := users.AddAccount(user, AccountParams{
		Name:        "Cuenta de ahorros",
		Description: &description,
		Currency:    models.CurrencyPEN,
		Type:        models.AccountTypeSavings,
	})
	if err != nil {
		t.Fatalf("AddAccount() error = %v", err)
	}

	if account.UserID != user.ID {
		t.Errorf("owner = %d, want %d", account.UserID, user.ID)
	}
	if account.Name != "Cuenta de ahorros" {
		t.Errorf("name = %q", account.Name)
	}
	if account.Description == nil || *account.Description != description {
		t.Errorf("description = %v, want %q", account.Description, description)
	}
	if account.Type != models.AccountTypeSavings {
		t.Errorf("type = %s, want savings", account.Type)
	}
	if !account.Balance.Equal(decimal.Zero) {
		t.Errorf("balance = %s, want 0", account.Balance)
	}
}

func TestAddAccountWithBalance(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	account, err := users.AddAccount(user, AccountParams{
		Name:    "Cuenta de ahorros",
		Balance: decimal.RequireFromString("1000.00"),
		Type:    models.AccountTypeSavings,
	})
	if err != nil {
		t.Fatalf("AddAccount() error = %v", err)
	}
	if !account.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("balance = %s, want 1000.00", account.Balance)
	}
}

func TestAddAccountDefaultCurrency(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user, err := users.Create("maria@test.com", "Maria", "hash", models.CurrencyUSD)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	account, err := users.AddAccount(user, AccountParams{
		Name: "Cuenta de ahorros",
		Type: models.AccountTypeSavings,
	})
	if err != nil {
		t.Fatalf("AddAccount() error = %v", err)
	}
	if account.Currency != models.CurrencyUSD {
		t.Errorf("currency = %s, want the user's favorite USD", account.Currency)
	}
}

func TestAddAccountMissingFields(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	if _, err := users.AddAccount(user, AccountParams{Type: models.AccountTypeSavings}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddAccount() without name: error = %v, want ErrValidation", err)
	}
	if _, err := users.AddAccount(user, AccountParams{Name: "Cuenta"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddAccount() without type: error = %v, want ErrValidation", err)
	}
	if _, err := users.AddAccount(user, AccountParams{Name: "Cuenta", Type: "piggybank"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddAccount() with unknown type: error = %v, want ErrValidation", err)
	}
}

func TestAddCategory(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	category, err := users.AddCategory(user, CategoryParams{
		Name: "Comida",
		Type: models.CategoryTypeExpense,
	})
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if category.Name != "Comida" || category.Type != models.CategoryTypeExpense {
		t.Errorf("category = %q/%s, want Comida/expense", category.Name, category.Type)
	}

	sub, err := users.AddCategory(user, CategoryParams{
		Name:   "Restaurantes",
		Type:   models.CategoryTypeExpense,
		Parent: category,
	})
	if err != nil {
		t.Fatalf("AddCategory() with parent: error = %v", err)
	}
	if sub.ParentID == nil || *sub.ParentID != category.ID {
		t.Error("subcategory does not reference its parent")
	}
}

func TestAddCategoryMissingFields(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	if _, err := users.AddCategory(user, CategoryParams{Type: models.CategoryTypeExpense}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddCategory() without name: error = %v, want ErrValidation", err)
	}
	if _, err := users.AddCategory(user, CategoryParams{Name: "Comida"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddCategory() without type: error = %v, want ErrValidation", err)
	}
}

func TestAddBudget(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db, models.CurrencyPEN)
	user := testUser(t, db)

	start, _ := time.Parse("2006-01-02", "2020-11-02")
	end, _ := time.Parse("2006-01-02", "2020-11-30")

	budget, err := users.AddBudget(user, start, end)
	if err != nil {
		t.Fatalf("AddBudget() error = %v", err)
	}
	if !budget.StartDate.Equal(start) || !budget.EndDate.Equal(end) {
		t.Errorf("budget dates = %v..%v, want %v..%v", budget.StartDate, budget.EndDate, start, end)
	}

	if _, err := users.AddBudget(user, time.Time{}, end); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddBudget() without start: error = %v, want ErrValidation", err)
	}
	if _, err := users.AddBudget(user, start, time.Time{}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddBudget() without end: error = %v, want ErrValidation", err)
	}
	if _, err := users.AddBudget(user, end, start); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("AddBudget() with reversed dates: error = %v, want ErrValidation", err)
	}
}
