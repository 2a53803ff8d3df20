package service

import (
	"strings"
	"time"

	"platero/internal/ledger"
	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserService owns user creation and the user-scoped factories for accounts,
// categories and budgets. The default currency is injected explicitly from
// configuration instead of being read from ambient state.
type UserService struct {
	db              *gorm.DB
	defaultCurrency models.Currency
}

func NewUserService(db *gorm.DB, defaultCurrency models.Currency) *UserService {
	return &UserService{db: db, defaultCurrency: defaultCurrency}
}

// Create persists a new user. The favorite currency falls back to the
// configured default when not given.
func (s *UserService) Create(email, name, passwordHash string, favorite models.Currency) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("users must have an email address")
	}
	if favorite == "" {
		favorite = s.defaultCurrency
	}
	if !favorite.Valid() {
		return nil, validationf("unknown currency %q", favorite)
	}

	user := &models.User{
		Email:            strings.ToLower(email),
		Name:             name,
		PasswordHash:     passwordHash,
		FavoriteCurrency: favorite,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AccountParams carries the field values for a new account.
type AccountParams struct {
	Name        string
	Description *string
	Currency    models.Currency
	Balance     decimal.Decimal
	Type        models.AccountType
}

// AddAccount creates an account owned by user. Name and type are required;
// the currency defaults to the user's favorite, the balance to 0.00.
func (s *UserService) AddAccount(user *models.User, p AccountParams) (*models.Account, error) {
	if user == nil || user.ID == 0 {
		return nil, validationf("accounts must have an owner")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, validationf("accounts must have a name")
	}
	if p.Type == "" {
		return nil, validationf("accounts must have a type")
	}
	if !p.Type.Valid() {
		return nil, validationf("unknown account type %q", p.Type)
	}
	currency := p.Currency
	if currency == "" {
		currency = user.FavoriteCurrency
	}
	if !currency.Valid() {
		return nil, validationf("unknown currency %q", currency)
	}

	account := &models.Account{
		UserID:      user.ID,
		Name:        p.Name,
		Description: p.Description,
		Currency:    currency,
		Balance:     p.Balance,
		Type:        p.Type,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// CategoryParams carries the field values for a new category.
type CategoryParams struct {
	Name        string
	Description *string
	Type        models.CategoryType
	Parent      *models.Category
}

// AddCategory creates a category owned by user. Name and type are required;
// parent is optional and must belong to the same user.
func (s *UserService) AddCategory(user *models.User, p CategoryParams) (*models.Category, error) {
	if user == nil || user.ID == 0 {
		return nil, validationf("categories must have an owner")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, validationf("categories must have a name")
	}
	if p.Type == "" {
		return nil, validationf("categories must have a type")
	}
	if !p.Type.Valid() {
		return nil, validationf("unknown category type %q", p.Type)
	}

	category := &models.Category{
		UserID:      user.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
	}
	if p.Parent != nil {
		if p.Parent.UserID != user.ID {
			return nil, validationf("parent category belongs to another user")
		}
		category.ParentID = &p.Parent.ID
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// AddBudget creates a budget window owned by user. Both dates are required.
func (s *UserService) AddBudget(user *models.User, start, end time.Time) (*models.Budget, error) {
	if user == nil || user.ID == 0 {
		return nil, validationf("budgets must have an owner")
	}
	if start.IsZero() {
		return nil, validationf("budgets must have a start date")
	}
	if end.IsZero() {
		return nil, validationf("budgets must have an end date")
	}
	if end.Before(start) {
		return nil, validationf("budget end date precedes its start date")
	}

	budget := &models.Budget{
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

func validationf(format string, args ...interface{}) error {
	return ledger.Validationf(format, args...)
}
