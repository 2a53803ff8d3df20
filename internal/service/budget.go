package service

import (
	"errors"

	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetService aggregates planned vs. actual spend. Nothing is cached;
// every aggregate is recomputed from the ledger on demand.
type BudgetService struct {
	db *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

// AddCategory attaches a planned-spending target for category to the budget.
func (s *BudgetService) AddCategory(budget *models.Budget, category *models.Category, planned decimal.Decimal) (*models.BudgetCategory, error) {
	if budget == nil || budget.ID == 0 {
		return nil, validationf("a budget is required")
	}
	if category == nil || category.ID == 0 {
		return nil, validationf("a category is required")
	}
	if category.UserID != budget.UserID {
		return nil, validationf("category belongs to another user")
	}
	if planned.IsNegative() {
		return nil, validationf("planned spending cannot be negative")
	}

	entry := &models.BudgetCategory{
		BudgetID:        budget.ID,
		CategoryID:      category.ID,
		PlannedSpending: planned,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Total is the sum of all planned-spending entries of the budget.
func (s *BudgetService) Total(budget *models.Budget) (decimal.Decimal, error) {
	if budget == nil || budget.ID == 0 {
		return decimal.Zero, validationf("a budget is required")
	}
	var entries []models.BudgetCategory
	if err := s.db.Where("budget_id = ?", budget.ID).Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.PlannedSpending)
	}
	return total, nil
}

// Spent is the sum of expense-type transaction amounts across all of the
// owner's accounts. Transfer legs never count. The budget dates bound the
// plan, not the query.
func (s *BudgetService) Spent(budget *models.Budget) (decimal.Decimal, error) {
	if budget == nil || budget.ID == 0 {
		return decimal.Zero, validationf("a budget is required")
	}
	return s.sumExpenses(budget, nil)
}

// Left is Total minus Spent.
func (s *BudgetService) Left(budget *models.Budget) (decimal.Decimal, error) {
	total, err := s.Total(budget)
	if err != nil {
		return decimal.Zero, err
	}
	spent, err := s.Spent(budget)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Sub(spent), nil
}

// TotalByCategory returns the planned spending for category. The category
// must have a planned entry in this budget.
func (s *BudgetService) TotalByCategory(budget *models.Budget, category *models.Category) (decimal.Decimal, error) {
	entry, err := s.entryFor(budget, category)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.PlannedSpending, nil
}

// SpentByCategory is Spent restricted to transactions tagged with category.
func (s *BudgetService) SpentByCategory(budget *models.Budget, category *models.Category) (decimal.Decimal, error) {
	if _, err := s.entryFor(budget, category); err != nil {
		return decimal.Zero, err
	}
	return s.sumExpenses(budget, &category.ID)
}

// LeftByCategory is the planned spending for category minus what was spent on it.
func (s *BudgetService) LeftByCategory(budget *models.Budget, category *models.Category) (decimal.Decimal, error) {
	entry, err := s.entryFor(budget, category)
	if err != nil {
		return decimal.Zero, err
	}
	spent, err := s.sumExpenses(budget, &category.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.PlannedSpending.Sub(spent), nil
}

func (s *BudgetService) entryFor(budget *models.Budget, category *models.Category) (*models.BudgetCategory, error) {
	if budget == nil || budget.ID == 0 {
		return nil, validationf("a budget is required")
	}
	if category == nil || category.ID == 0 {
		return nil, validationf("a category is required")
	}
	var entry models.BudgetCategory
	err := s.db.
		Where("budget_id = ? AND category_id = ?", budget.ID, category.ID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("category %q has no planned entry in this budget", category.Name)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *BudgetService) sumExpenses(budget *models.Budget, categoryID *uint) (decimal.Decimal, error) {
	query := s.db.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", budget.UserID).
		Where("transactions.type = ?", models.TransactionTypeExpense)
	if categoryID != nil {
		query = query.Where("transactions.category_id = ?", *categoryID)
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		return decimal.Zero, err
	}
	spent := decimal.Zero
	for _, t := range txns {
		spent = spent.Add(t.Amount)
	}
	return spent, nil
}
