package handler

import (
	"net/http"
	"strconv"

	"platero/internal/models"
	"platero/internal/service"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountHandler serves the account CRUD and balance endpoints.
type AccountHandler struct {
	DB       *gorm.DB
	Users    *service.UserService
	Accounts *service.AccountService
}

func NewAccountHandler(db *gorm.DB, users *service.UserService, accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{DB: db, Users: users, Accounts: accounts}
}

type createAccountReq struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Currency    string  `json:"currency"`
	Balance     string  `json:"balance"`
	Type        string  `json:"type" binding:"required"`
}

type accountResp struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Currency    string  `json:"currency"`
	Balance     string  `json:"balance"`
	Type        string  `json:"type"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Currency:    string(a.Currency),
		Balance:     a.Balance.StringFixed(2),
		Type:        string(a.Type),
	}
}

// findOwned loads an account by path id, scoped to the current user.
func (h *AccountHandler) findOwned(c *gin.Context, user *models.User) *models.Account {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
		return nil
	}
	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&account).Error; err != nil {
		writeDomainError(c, err)
		return nil
	}
	return &account
}

func (h *AccountHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		d, err := decimal.NewFromString(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
		balance = d
	}

	account, err := h.Users.AddAccount(user, service.AccountParams{
		Name:        req.Name,
		Description: req.Description,
		Currency:    models.Currency(req.Currency),
		Balance:     balance,
		Type:        models.AccountType(req.Type),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"account": toAccountResp(account),
	})
}

func (h *AccountHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	account := h.findOwned(c, user)
	if account == nil {
		return
	}

	util.Success(c, util.Response{
		"account": toAccountResp(account),
	})
}

type updateAccountReq struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// Update renames an account. Currency, type and balance are not editable;
// balance moves only through the ledger engine.
func (h *AccountHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	account := h.findOwned(c, user)
	if account == nil {
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	account.Name = req.Name
	account.Description = req.Description
	if err := h.DB.Model(account).
		Select("name", "description").
		Updates(account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed")
		return
	}

	util.Success(c, util.Response{
		"account": toAccountResp(account),
	})
}

// Delete removes the account and all its transactions.
func (h *AccountHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	account := h.findOwned(c, user)
	if account == nil {
		return
	}

	if err := h.Accounts.Delete(account); err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "account deleted",
	})
}

// Balance returns the account balance for a period. Monthly snapshots, when
// present, override the live balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	account := h.findOwned(c, user)
	if account == nil {
		return
	}

	var year, month int
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
			return
		}
		year = v
	}
	if s := c.Query("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month")
			return
		}
		month = v
	}

	balance, err := h.Accounts.Balance(account, year, month)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"account_id": account.ID,
		"balance":    balance.StringFixed(2),
		"currency":   account.Currency,
	})
}
