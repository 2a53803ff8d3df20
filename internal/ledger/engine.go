package ledger

import (
	"errors"
	"time"

	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Engine creates transactions and performs the balance-mutating apply/unapply
// transitions. It is the only code allowed to touch Account.Balance; every
// multi-row write runs inside a single database transaction, and the is_paid
// guard is a conditional update so two concurrent appliers cannot both pass it.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CreateParams carries the validated field values for a new transaction.
type CreateParams struct {
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
	Category    *models.Category
	Account     *models.Account
	Type        models.TransactionType
	LogicType   models.LogicType
	IsPaid      bool
}

// TransferParams carries the field values for a new transfer pair.
type TransferParams struct {
	Amount             decimal.Decimal
	Description        *string
	Date               time.Time
	Account            *models.Account
	DestinationAccount *models.Account
	IsPaid             bool
}

// CreateTransaction persists a new transaction row. The row is created
// unapplied; when p.IsPaid is set the apply transition runs as a second step
// inside the same database transaction, so apply's guarantees hold uniformly
// regardless of the creation-time flag.
func (e *Engine) CreateTransaction(p CreateParams) (*models.Transaction, error) {
	if !p.Amount.IsPositive() {
		return nil, validationf("transactions must have a positive amount")
	}
	if p.Date.IsZero() {
		return nil, validationf("transactions must have a date")
	}
	if p.Account == nil || p.Account.ID == 0 {
		return nil, validationf("transactions must have an account")
	}
	if !p.Type.Valid() {
		return nil, validationf("transactions must have a type")
	}

	txn := &models.Transaction{
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.Date,
		AccountID:   p.Account.ID,
		Type:        p.Type,
		LogicType:   p.LogicType,
	}
	if p.Category != nil {
		txn.CategoryID = &p.Category.ID
	}

	err := e.db.Transaction(func(db *gorm.DB) error {
		if err := db.Create(txn).Error; err != nil {
			return err
		}
		if p.IsPaid {
			return applyLocked(db, txn, p.Account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// CreateIncome creates an income transaction. The category is required and its
// type must be income; a mis-tagged money flow is rejected outright.
func (e *Engine) CreateIncome(p CreateParams) (*models.Transaction, error) {
	if err := checkCategory(p.Category, models.CategoryTypeIncome); err != nil {
		return nil, err
	}
	p.Type = models.TransactionTypeIncome
	p.LogicType = models.LogicTypeIncome
	return e.CreateTransaction(p)
}

// CreateExpense creates an expense transaction. The category is required and
// its type must be expense.
func (e *Engine) CreateExpense(p CreateParams) (*models.Transaction, error) {
	if err := checkCategory(p.Category, models.CategoryTypeExpense); err != nil {
		return nil, err
	}
	p.Type = models.TransactionTypeExpense
	p.LogicType = models.LogicTypeExpense
	return e.CreateTransaction(p)
}

func checkCategory(category *models.Category, want models.CategoryType) error {
	if category == nil || category.ID == 0 {
		return validationf("%s transactions must have a category", want)
	}
	if category.Type != want {
		return validationf("category %q is not an %s category", category.Name, want)
	}
	return nil
}

// CreateTransfer builds the two legs of a transfer: an expense-direction leg
// on the origin account and an income-direction leg on the destination, both
// type transfer, cross-linked one-to-one. Leg creation, linking and the
// optional apply of both legs run in one database transaction, so no unlinked
// leg is ever visible outside it. Returns the origin leg.
func (e *Engine) CreateTransfer(p TransferParams) (*models.Transaction, error) {
	if !p.Amount.IsPositive() {
		return nil, validationf("transfers must have a positive amount")
	}
	if p.Date.IsZero() {
		return nil, validationf("transfers must have a date")
	}
	if p.Account == nil || p.Account.ID == 0 {
		return nil, validationf("transfers must have an origin account")
	}
	if p.DestinationAccount == nil || p.DestinationAccount.ID == 0 {
		return nil, validationf("transfers must have a destination account")
	}
	if p.Account.ID == p.DestinationAccount.ID {
		return nil, validationf("transfers need two distinct accounts")
	}

	origin := &models.Transaction{
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.Date,
		AccountID:   p.Account.ID,
		Type:        models.TransactionTypeTransfer,
		LogicType:   models.LogicTypeExpense,
	}
	destination := &models.Transaction{
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.Date,
		AccountID:   p.DestinationAccount.ID,
		Type:        models.TransactionTypeTransfer,
		LogicType:   models.LogicTypeIncome,
	}

	err := e.db.Transaction(func(db *gorm.DB) error {
		if err := db.Create(origin).Error; err != nil {
			return err
		}
		if err := db.Create(destination).Error; err != nil {
			return err
		}
		if err := db.Model(origin).Update("linked_transaction_id", destination.ID).Error; err != nil {
			return err
		}
		if err := db.Model(destination).Update("linked_transaction_id", origin.ID).Error; err != nil {
			return err
		}
		origin.LinkedTransactionID = &destination.ID
		destination.LinkedTransactionID = &origin.ID
		origin.LinkedTransaction = destination
		destination.LinkedTransaction = origin

		if p.IsPaid {
			if err := applyLocked(db, origin, p.Account); err != nil {
				return err
			}
			return applyLocked(db, destination, p.DestinationAccount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return origin, nil
}

// Apply transitions the transaction from UNPAID to PAID and moves the account
// balance by the signed amount. Fails with ErrAlreadyApplied on a paid row.
func (e *Engine) Apply(txn *models.Transaction) error {
	if txn == nil || txn.ID == 0 {
		return validationf("apply needs a persisted transaction")
	}
	return e.db.Transaction(func(db *gorm.DB) error {
		return applyLocked(db, txn, nil)
	})
}

// Unapply reverses a previous Apply: PAID back to UNPAID, balance moved by the
// exact opposite delta. Applying then unapplying is a no-op on the balance.
func (e *Engine) Unapply(txn *models.Transaction) error {
	if txn == nil || txn.ID == 0 {
		return validationf("unapply needs a persisted transaction")
	}
	return e.db.Transaction(func(db *gorm.DB) error {
		return unapplyLocked(db, txn, nil)
	})
}

// applyLocked runs the apply transition inside the caller's transaction.
// The conditional is_paid flip is the serialization point: of two concurrent
// appliers only one update matches, the other gets ErrAlreadyApplied. The
// flag flip and the balance write commit or roll back together. When acc is
// non-nil its in-memory balance is refreshed after the write.
func applyLocked(db *gorm.DB, txn *models.Transaction, acc *models.Account) error {
	current, err := reload(db, txn)
	if err != nil {
		return err
	}

	res := db.Model(&models.Transaction{}).
		Where("id = ? AND is_paid = ?", current.ID, false).
		Update("is_paid", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyApplied
	}

	delta := current.Amount
	if current.LogicType == models.LogicTypeExpense {
		delta = delta.Neg()
	}
	if err := moveBalance(db, current.AccountID, delta, acc); err != nil {
		return err
	}
	txn.IsPaid = true
	return nil
}

// unapplyLocked is the inverse of applyLocked, with the same guard discipline.
func unapplyLocked(db *gorm.DB, txn *models.Transaction, acc *models.Account) error {
	current, err := reload(db, txn)
	if err != nil {
		return err
	}

	res := db.Model(&models.Transaction{}).
		Where("id = ? AND is_paid = ?", current.ID, true).
		Update("is_paid", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotApplied
	}

	delta := current.Amount
	if current.LogicType == models.LogicTypeIncome {
		delta = delta.Neg()
	}
	if err := moveBalance(db, current.AccountID, delta, acc); err != nil {
		return err
	}
	txn.IsPaid = false
	return nil
}

func reload(db *gorm.DB, txn *models.Transaction) (*models.Transaction, error) {
	var current models.Transaction
	if err := db.First(&current, txn.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("transaction %d does not exist", txn.ID)
		}
		return nil, err
	}
	return &current, nil
}

// moveBalance shifts the account balance by the signed delta. The arithmetic
// happens in decimal space so the stored balance never picks up float noise.
func moveBalance(db *gorm.DB, accountID uint, delta decimal.Decimal, acc *models.Account) error {
	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		return err
	}
	newBalance := account.Balance.Add(delta)
	if err := db.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("balance", newBalance).Error; err != nil {
		return err
	}
	if acc != nil && acc.ID == account.ID {
		acc.Balance = newBalance
	}
	return nil
}
