package ledger

import (
	"errors"
	"time"

	"platero/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountBalance returns the account balance for the given period. A monthly
// snapshot (AccountLog) for that (year, month) overrides the live balance;
// without one the live balance is returned. Zero year/month default to the
// current date. Snapshots are written by an external batch job, never here.
func (e *Engine) AccountBalance(account *models.Account, year, month int) (decimal.Decimal, error) {
	if account == nil || account.ID == 0 {
		return decimal.Zero, validationf("balance lookup needs a persisted account")
	}
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	var log models.AccountLog
	err := e.db.
		Where("account_id = ? AND year = ? AND month = ?", account.ID, year, month).
		First(&log).Error
	if err == nil {
		return log.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	var current models.Account
	if err := e.db.First(&current, account.ID).Error; err != nil {
		return decimal.Zero, err
	}
	return current.Balance, nil
}
