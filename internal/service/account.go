package service

import (
	"time"

	"platero/internal/ledger"
	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService dispatches account-level operations to the ledger engine and
// owns account deletion.
type AccountService struct {
	db     *gorm.DB
	engine *ledger.Engine
}

func NewAccountService(db *gorm.DB, engine *ledger.Engine) *AccountService {
	return &AccountService{db: db, engine: engine}
}

// TransactionParams carries the request-level field values for a new
// transaction on an account. DestinationAccount is only meaningful for
// transfers, Category only for income/expense.
type TransactionParams struct {
	Amount             decimal.Decimal
	Description        *string
	Date               time.Time
	Category           *models.Category
	DestinationAccount *models.Account
	IsPaid             bool
}

// AddTransaction creates a transaction on account, dispatching on the
// requested type. Unknown types are rejected.
func (s *AccountService) AddTransaction(account *models.Account, txType models.TransactionType, p TransactionParams) (*models.Transaction, error) {
	if account == nil || account.ID == 0 {
		return nil, validationf("transactions must have an account")
	}

	switch txType {
	case models.TransactionTypeTransfer:
		return s.engine.CreateTransfer(ledger.TransferParams{
			Amount:             p.Amount,
			Description:        p.Description,
			Date:               p.Date,
			Account:            account,
			DestinationAccount: p.DestinationAccount,
			IsPaid:             p.IsPaid,
		})
	case models.TransactionTypeIncome:
		return s.engine.CreateIncome(ledger.CreateParams{
			Amount:      p.Amount,
			Description: p.Description,
			Date:        p.Date,
			Category:    p.Category,
			Account:     account,
			IsPaid:      p.IsPaid,
		})
	case models.TransactionTypeExpense:
		return s.engine.CreateExpense(ledger.CreateParams{
			Amount:      p.Amount,
			Description: p.Description,
			Date:        p.Date,
			Category:    p.Category,
			Account:     account,
			IsPaid:      p.IsPaid,
		})
	}
	return nil, validationf("unknown transaction type %q", txType)
}

// Balance returns the account balance for the given period, honoring monthly
// snapshots. Zero year/month default to the current date.
func (s *AccountService) Balance(account *models.Account, year, month int) (decimal.Decimal, error) {
	return s.engine.AccountBalance(account, year, month)
}

// Delete removes the account and cascades to its transactions. Transfer legs
// on other accounts that pointed at a removed leg are unlinked first, all
// inside one database transaction.
func (s *AccountService) Delete(account *models.Account) error {
	if account == nil || account.ID == 0 {
		return validationf("delete needs a persisted account")
	}
	return s.db.Transaction(func(db *gorm.DB) error {
		legs := db.Model(&models.Transaction{}).
			Select("id").
			Where("account_id = ?", account.ID)
		if err := db.Model(&models.Transaction{}).
			Where("linked_transaction_id IN (?)", legs).
			Update("linked_transaction_id", nil).Error; err != nil {
			return err
		}
		if err := db.Where("account_id = ?", account.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := db.Where("account_id = ?", account.ID).
			Delete(&models.AccountLog{}).Error; err != nil {
			return err
		}
		return db.Delete(&models.Account{}, account.ID).Error
	})
}
