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

// CategoryHandler serves the category CRUD endpoints.
type CategoryHandler struct {
	DB         *gorm.DB
	Users      *service.UserService
	Categories *service.CategoryService
}

func NewCategoryHandler(db *gorm.DB, users *service.UserService, categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{DB: db, Users: users, Categories: categories}
}

type createCategoryReq struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Type        string  `json:"type" binding:"required"`
	ParentID    uint    `json:"parent_id"`
}

type categoryResp struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
	ParentID    *uint   `json:"parent_id"`
	Level       int     `json:"level"`
}

func (h *CategoryHandler) toCategoryResp(cat *models.Category) categoryResp {
	level, err := h.Categories.Level(cat)
	if err != nil {
		level = 0 // corrupt tree, surfaced as level 0 rather than failing the read
	}
	return categoryResp{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Type:        string(cat.Type),
		ParentID:    cat.ParentID,
		Level:       level,
	}
}

func (h *CategoryHandler) findOwned(c *gin.Context, user *models.User) *models.Category {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return nil
	}
	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category).Error; err != nil {
		writeDomainError(c, err)
		return nil
	}
	return &category
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	params := service.CategoryParams{
		Name:        req.Name,
		Description: req.Description,
		Type:        models.CategoryType(req.Type),
	}
	if req.ParentID != 0 {
		var parent models.Category
		if err := h.DB.Where("id = ? AND user_id = ?", req.ParentID, user.ID).
			First(&parent).Error; err != nil {
			writeDomainError(c, err)
			return
		}
		params.Parent = &parent
	}

	category, err := h.Users.AddCategory(user, params)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"category": h.toCategoryResp(category),
	})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	query := h.DB.Where("user_id = ?", user.ID)
	if s := c.Query("type"); s != "" {
		if !models.CategoryType(s).Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid type")
			return
		}
		query = query.Where("type = ?", s)
	}

	var categories []models.Category
	if err := query.Order("id ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]categoryResp, 0, len(categories))
	for i := range categories {
		items = append(items, h.toCategoryResp(&categories[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	category := h.findOwned(c, user)
	if category == nil {
		return
	}

	util.Success(c, util.Response{
		"category": h.toCategoryResp(category),
	})
}

type updateCategoryReq struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	ParentID    *uint   `json:"parent_id"`
}

// Update renames or reparents a category. The type is immutable; transactions
// already tagged with it rely on the direction staying put.
func (h *CategoryHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	category := h.findOwned(c, user)
	if category == nil {
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if req.ParentID == nil {
		if err := h.Categories.SetParent(category, nil); err != nil {
			writeDomainError(c, err)
			return
		}
	} else {
		var parent models.Category
		if err := h.DB.Where("id = ? AND user_id = ?", *req.ParentID, user.ID).
			First(&parent).Error; err != nil {
			writeDomainError(c, err)
			return
		}
		if err := h.Categories.SetParent(category, &parent); err != nil {
			writeDomainError(c, err)
			return
		}
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := h.DB.Model(category).
		Select("name", "description").
		Updates(category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed")
		return
	}

	util.Success(c, util.Response{
		"category": h.toCategoryResp(category),
	})
}

// Delete removes a category unless subcategories or transactions still
// reference it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	category := h.findOwned(c, user)
	if category == nil {
		return
	}

	if err := h.Categories.Delete(category); err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category deleted",
	})
}
