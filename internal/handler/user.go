package handler

import (
	"net/http"
	"strings"

	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the current logged-in user (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":                user.ID,
			"email":             user.Email,
			"name":              user.Name,
			"favorite_currency": user.FavoriteCurrency,
			"created_at":        user.CreatedAt,
		},
	})
}

// UpdateProfileReq updates the user's profile fields.
type UpdateProfileReq struct {
	Name string `json:"name" binding:"max=255"`
}

// UpdateProfile updates the current user's name.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
			return
		}

		req.Name = strings.TrimSpace(req.Name)

		if err := db.Model(user).Update("name", req.Name).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed")
			return
		}

		user.Name = req.Name

		util.Success(c, util.Response{
			"user": gin.H{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.Name,
			},
		})
	}
}

// ChangePasswordReq changes the user's password.
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// ChangePassword changes the current user's password.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
			return
		}

		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "wrong current password")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password_hash", hash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update password")
			return
		}

		util.Success(c, util.Response{
			"message": "password changed, please log in again",
		})
	}
}
