package handler

import (
	"net/http"
	"strings"
	"time"

	"platero/internal/config"
	"platero/internal/models"
	"platero/internal/service"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthHandler serves register/login/logout.
type AuthHandler struct {
	DB         *gorm.DB
	Users      *service.UserService
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, users *service.UserService, cfg *config.Config) *AuthHandler {
	ttlHours := cfg.JWT.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:         db,
		Users:      users,
		JWTSecret:  cfg.JWT.Secret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: cfg.Security.BcryptCost,
	}
}

type registerReq struct {
	Email            string `json:"email" binding:"required"`
	Name             string `json:"name" binding:"max=255"`
	Password         string `json:"password" binding:"required,min=8,max=64"`
	FavoriteCurrency string `json:"favorite_currency"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid email address")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email already registered")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user, err := h.Users.Create(req.Email, req.Name, hash, models.Currency(req.FavoriteCurrency))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Created(c, util.Response{
		"user": gin.H{
			"id":                user.ID,
			"email":             user.Email,
			"name":              user.Name,
			"favorite_currency": user.FavoriteCurrency,
		},
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	var user models.User
	if err := h.DB.Where("LOWER(email) = LOWER(?)", req.Email).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong email or password")
		return
	}

	now := time.Now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create session")
		return
	}

	ip := c.ClientIP()
	user.LastLoginIP = ip
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	token, err := util.GenerateToken(h.JWTSecret, user.ID, session.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":                user.ID,
			"email":             user.Email,
			"name":              user.Name,
			"favorite_currency": user.FavoriteCurrency,
		},
	})
}

// Logout revokes the session carried by the current token.
func (h *AuthHandler) Logout(c *gin.Context) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	if err := h.DB.Model(&models.Session{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to log out")
		return
	}

	util.Success(c, util.Response{
		"message": "logged out",
	})
}
