package service

import (
	"errors"
	"testing"
	"time"

	"platero/internal/ledger"
	"platero/internal/models"

	"github.com/shopspring/decimal"
)

type budgetFixture struct {
	users      *UserService
	budgets    *BudgetService
	user       *models.User
	budget     *models.Budget
	account    *models.Account
	comida     *models.Category
	transporte *models.Category
}

func newBudgetFixture(t *testing.T) (*budgetFixture, func()) {
	t.Helper()
	db := testDB(t)

	f := &budgetFixture{
		users:   NewUserService(db, models.CurrencyPEN),
		budgets: NewBudgetService(db),
	}
	f.user = testUser(t, db)

	start, _ := time.Parse("2006-01-02", "2020-11-02")
	end, _ := time.Parse("2006-01-02", "2020-11-30")
	budget, err := f.users.AddBudget(f.user, start, end)
	if err != nil {
		t.Fatalf("AddBudget() error = %v", err)
	}
	f.budget = budget

	f.account, err = f.users.AddAccount(f.user, AccountParams{
		Name:    "Cuenta",
		Type:    models.AccountTypeSavings,
		Balance: decimal.RequireFromString("5000.00"),
	})
	if err != nil {
		t.Fatalf("AddAccount() error = %v", err)
	}

	f.comida, _ = f.users.AddCategory(f.user, CategoryParams{Name: "Comida", Type: models.CategoryTypeExpense})
	f.transporte, _ = f.users.AddCategory(f.user, CategoryParams{Name: "Transporte", Type: models.CategoryTypeExpense})

	if _, err := f.budgets.AddCategory(f.budget, f.comida, decimal.RequireFromString("1000.00")); err != nil {
		t.Fatalf("AddCategory(comida) error = %v", err)
	}
	if _, err := f.budgets.AddCategory(f.budget, f.transporte, decimal.RequireFromString("2000.00")); err != nil {
		t.Fatalf("AddCategory(transporte) error = %v", err)
	}

	spend := func() { testExpense(t, db, f.account, f.comida, "100.00") }
	return f, spend
}

func wantDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("amount = %s, want %s", got.StringFixed(2), want)
	}
}

func TestBudgetTotal(t *testing.T) {
	f, _ := newBudgetFixture(t)

	total, err := f.budgets.Total(f.budget)
	if err != nil {
		t.Fatalf("Total() error = %v", err)
	}
	wantDecimal(t, total, "3000.00")
}

func TestBudgetSpentAndLeft(t *testing.T) {
	f, spend := newBudgetFixture(t)
	spend()

	spent, err := f.budgets.Spent(f.budget)
	if err != nil {
		t.Fatalf("Spent() error = %v", err)
	}
	wantDecimal(t, spent, "100.00")

	left, err := f.budgets.Left(f.budget)
	if err != nil {
		t.Fatalf("Left() error = %v", err)
	}
	wantDecimal(t, left, "2900.00")
}

func TestBudgetByCategory(t *testing.T) {
	f, spend := newBudgetFixture(t)
	spend()

	total, err := f.budgets.TotalByCategory(f.budget, f.comida)
	if err != nil {
		t.Fatalf("TotalByCategory() error = %v", err)
	}
	wantDecimal(t, total, "1000.00")

	spent, err := f.budgets.SpentByCategory(f.budget, f.comida)
	if err != nil {
		t.Fatalf("SpentByCategory() error = %v", err)
	}
	wantDecimal(t, spent, "100.00")

	left, err := f.budgets.LeftByCategory(f.budget, f.comida)
	if err != nil {
		t.Fatalf("LeftByCategory() error = %v", err)
	}
	wantDecimal(t, left, "900.00")

	// transporte has a plan but no spend
	left, err = f.budgets.LeftByCategory(f.budget, f.transporte)
	if err != nil {
		t.Fatalf("LeftByCategory(transporte) error = %v", err)
	}
	wantDecimal(t, left, "2000.00")
}

func TestBudgetUnplannedCategory(t *testing.T) {
	f, _ := newBudgetFixture(t)

	salud, err := f.users.AddCategory(f.user, CategoryParams{Name: "Salud", Type: models.CategoryTypeExpense})
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}

	if _, err := f.budgets.TotalByCategory(f.budget, salud); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("TotalByCategory(unplanned): error = %v, want ErrValidation", err)
	}
	if _, err := f.budgets.SpentByCategory(f.budget, salud); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("SpentByCategory(unplanned): error = %v, want ErrValidation", err)
	}
	if _, err := f.budgets.LeftByCategory(f.budget, salud); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("LeftByCategory(unplanned): error = %v, want ErrValidation", err)
	}
}

func TestBudgetAddCategoryValidation(t *testing.T) {
	f, _ := newBudgetFixture(t)

	if _, err := f.budgets.AddCategory(nil, f.comida, decimal.Zero); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("nil budget: error = %v, want ErrValidation", err)
	}
	if _, err := f.budgets.AddCategory(f.budget, nil, decimal.Zero); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("nil category: error = %v, want ErrValidation", err)
	}
	if _, err := f.budgets.AddCategory(f.budget, f.comida, decimal.RequireFromString("-1")); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("negative plan: error = %v, want ErrValidation", err)
	}
}

func TestBudgetSpentIgnoresTransfers(t *testing.T) {
	f, spend := newBudgetFixture(t)
	spend()

	other, err := f.users.AddAccount(f.user, AccountParams{
		Name:    "Otra cuenta",
		Type:    models.AccountTypeSavings,
		Balance: decimal.RequireFromString("1000.00"),
	})
	if err != nil {
		t.Fatalf("AddAccount() error = %v", err)
	}
	engine := ledger.NewEngine(f.budgets.db)
	date, _ := time.Parse("2006-01-02", "2020-11-15")
	if _, err := engine.CreateTransfer(ledger.TransferParams{
		Account:            f.account,
		DestinationAccount: other,
		Amount:             decimal.RequireFromString("250.00"),
		Date:               date,
		IsPaid:             true,
	}); err != nil {
		t.Fatalf("CreateTransfer() error = %v", err)
	}

	spent, err := f.budgets.Spent(f.budget)
	if err != nil {
		t.Fatalf("Spent() error = %v", err)
	}
	wantDecimal(t, spent, "100.00")
}
