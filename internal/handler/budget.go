package handler

import (
	"net/http"
	"strconv"

	"platero/internal/models"
	"platero/internal/service"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves budget CRUD and the planned-vs-actual summaries.
type BudgetHandler struct {
	DB      *gorm.DB
	Users   *service.UserService
	Budgets *service.BudgetService
}

func NewBudgetHandler(db *gorm.DB, users *service.UserService, budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{DB: db, Users: users, Budgets: budgets}
}

type createBudgetReq struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type budgetResp struct {
	ID        uint   `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toBudgetResp(b *models.Budget) budgetResp {
	return budgetResp{
		ID:        b.ID,
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
	}
}

func (h *BudgetHandler) findOwned(c *gin.Context, user *models.User) *models.Budget {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return nil
	}
	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		writeDomainError(c, err)
		return nil
	}
	return &budget
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end_date must be YYYY-MM-DD")
		return
	}

	budget, err := h.Users.AddBudget(user, start, end)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"budget": toBudgetResp(budget),
	})
}

func (h *BudgetHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]budgetResp, 0, len(budgets))
	for i := range budgets {
		items = append(items, toBudgetResp(&budgets[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	budget := h.findOwned(c, user)
	if budget == nil {
		return
	}

	util.Success(c, util.Response{
		"budget": toBudgetResp(budget),
	})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	budget := h.findOwned(c, user)
	if budget == nil {
		return
	}

	err := h.DB.Transaction(func(db *gorm.DB) error {
		if err := db.Where("budget_id = ?", budget.ID).
			Delete(&models.BudgetCategory{}).Error; err != nil {
			return err
		}
		return db.Delete(&models.Budget{}, budget.ID).Error
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "budget deleted",
	})
}

type addBudgetCategoryReq struct {
	CategoryID      uint   `json:"category_id" binding:"required"`
	PlannedSpending string `json:"planned_spending" binding:"required"`
}

// AddCategory attaches a planned-spending target to the budget.
func (h *BudgetHandler) AddCategory(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	budget := h.findOwned(c, user)
	if budget == nil {
		return
	}

	var req addBudgetCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	planned, err := util.ParseAmount(req.PlannedSpending)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid planned_spending")
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).
		First(&category).Error; err != nil {
		writeDomainError(c, err)
		return
	}

	entry, err := h.Budgets.AddCategory(budget, &category, planned)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"budget_category": gin.H{
			"id":               entry.ID,
			"budget_id":        entry.BudgetID,
			"category_id":      entry.CategoryID,
			"planned_spending": entry.PlannedSpending.StringFixed(2),
		},
	})
}

// Summary returns the budget's planned total, actual spend and what is left.
func (h *BudgetHandler) Summary(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	budget := h.findOwned(c, user)
	if budget == nil {
		return
	}

	total, err := h.Budgets.Total(budget)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	spent, err := h.Budgets.Spent(budget)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"budget": toBudgetResp(budget),
		"total":  total.StringFixed(2),
		"spent":  spent.StringFixed(2),
		"left":   total.Sub(spent).StringFixed(2),
	})
}

// CategorySummary is Summary restricted to one planned category.
func (h *BudgetHandler) CategorySummary(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	budget := h.findOwned(c, user)
	if budget == nil {
		return
	}

	categoryID, err := strconv.Atoi(c.Param("categoryID"))
	if err != nil || categoryID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}
	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", categoryID, user.ID).
		First(&category).Error; err != nil {
		writeDomainError(c, err)
		return
	}

	total, err := h.Budgets.TotalByCategory(budget, &category)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	spent, err := h.Budgets.SpentByCategory(budget, &category)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"budget":      toBudgetResp(budget),
		"category_id": category.ID,
		"total":       total.StringFixed(2),
		"spent":       spent.StringFixed(2),
		"left":        total.Sub(spent).StringFixed(2),
	})
}
