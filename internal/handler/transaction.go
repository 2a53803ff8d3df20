package handler

import (
	"net/http"
	"strconv"
	"time"

	"platero/internal/ledger"
	"platero/internal/models"
	"platero/internal/service"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction creation, listing and the pay/unpay
// transitions.
type TransactionHandler struct {
	DB       *gorm.DB
	Accounts *service.AccountService
	Engine   *ledger.Engine
}

func NewTransactionHandler(db *gorm.DB, accounts *service.AccountService, engine *ledger.Engine) *TransactionHandler {
	return &TransactionHandler{DB: db, Accounts: accounts, Engine: engine}
}

type createTransactionReq struct {
	Type                 string  `json:"type" binding:"required,oneof=income expense transfer"`
	Amount               string  `json:"amount" binding:"required"`
	Description          *string `json:"description" binding:"omitempty,max=255"`
	Date                 string  `json:"date" binding:"required"`
	CategoryID           uint    `json:"category_id"`
	DestinationAccountID uint    `json:"destination_account_id"`
	IsPaid               bool    `json:"is_paid"`
}

type transactionResp struct {
	ID                  uint    `json:"id"`
	Amount              string  `json:"amount"`
	Description         *string `json:"description"`
	Date                string  `json:"date"`
	CategoryID          *uint   `json:"category_id"`
	AccountID           uint    `json:"account_id"`
	LinkedTransactionID *uint   `json:"linked_transaction_id"`
	Type                string  `json:"type"`
	LogicType           string  `json:"logic_type"`
	IsPaid              bool    `json:"is_paid"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:                  t.ID,
		Amount:              t.Amount.StringFixed(2),
		Description:         t.Description,
		Date:                t.Date.Format("2006-01-02"),
		CategoryID:          t.CategoryID,
		AccountID:           t.AccountID,
		LinkedTransactionID: t.LinkedTransactionID,
		Type:                string(t.Type),
		LogicType:           string(t.LogicType),
		IsPaid:              t.IsPaid,
	}
}

// Create adds a transaction on the account in the path. The request type
// selects the ledger operation: income, expense or transfer.
func (h *TransactionHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil || accountID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
		return
	}
	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", accountID, user.ID).
		First(&account).Error; err != nil {
		writeDomainError(c, err)
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return
	}

	params := service.TransactionParams{
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		IsPaid:      req.IsPaid,
	}

	if req.CategoryID != 0 {
		var category models.Category
		if err := h.DB.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).
			First(&category).Error; err != nil {
			writeDomainError(c, err)
			return
		}
		params.Category = &category
	}
	if req.DestinationAccountID != 0 {
		var destination models.Account
		if err := h.DB.Where("id = ? AND user_id = ?", req.DestinationAccountID, user.ID).
			First(&destination).Error; err != nil {
			writeDomainError(c, err)
			return
		}
		params.DestinationAccount = &destination
	}

	txn, err := h.Accounts.AddTransaction(&account, models.TransactionType(req.Type), params)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"transaction": toTransactionResp(txn),
	})
}

// List returns the current user's transactions, optionally filtered by
// account, type, paid flag and date range.
func (h *TransactionHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	query := h.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", user.ID)

	if s := c.Query("account_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
			return
		}
		query = query.Where("transactions.account_id = ?", id)
	}
	if s := c.Query("type"); s != "" {
		if !models.TransactionType(s).Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid type")
			return
		}
		query = query.Where("transactions.type = ?", s)
	}
	if s := c.Query("is_paid"); s != "" {
		paid, err := strconv.ParseBool(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid is_paid")
			return
		}
		query = query.Where("transactions.is_paid = ?", paid)
	}
	if s := c.Query("start"); s != "" {
		start, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		query = query.Where("transactions.date >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// inclusive end date
		query = query.Where("transactions.date < ?", end.Add(24*time.Hour))
	}

	var txns []models.Transaction
	if err := query.Order("transactions.date DESC, transactions.id DESC").
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

// findOwned loads a transaction by path id, scoped through its account to the
// current user.
func (h *TransactionHandler) findOwned(c *gin.Context, user *models.User) *models.Transaction {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return nil
	}
	var txn models.Transaction
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.id = ? AND accounts.user_id = ?", id, user.ID).
		First(&txn).Error; err != nil {
		writeDomainError(c, err)
		return nil
	}
	return &txn
}

// Pay applies the transaction's balance effect.
func (h *TransactionHandler) Pay(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	txn := h.findOwned(c, user)
	if txn == nil {
		return
	}

	if err := h.Engine.Apply(txn); err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn),
	})
}

// Unpay reverses a previously applied balance effect.
func (h *TransactionHandler) Unpay(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	txn := h.findOwned(c, user)
	if txn == nil {
		return
	}

	if err := h.Engine.Unapply(txn); err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn),
	})
}

// Delete removes a transaction. A paid transaction is unapplied first so the
// account balance stays consistent; a transfer leg unlinks (and unapplies)
// its partner in the same database transaction.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	txn := h.findOwned(c, user)
	if txn == nil {
		return
	}

	err := h.DB.Transaction(func(db *gorm.DB) error {
		engine := ledger.NewEngine(db)
		if txn.IsPaid {
			if err := engine.Unapply(txn); err != nil {
				return err
			}
		}
		if txn.LinkedTransactionID != nil {
			var partner models.Transaction
			if err := db.First(&partner, *txn.LinkedTransactionID).Error; err == nil {
				if partner.IsPaid {
					if err := engine.Unapply(&partner); err != nil {
						return err
					}
				}
				if err := db.Delete(&models.Transaction{}, partner.ID).Error; err != nil {
					return err
				}
			}
		}
		return db.Delete(&models.Transaction{}, txn.ID).Error
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction deleted",
	})
}
