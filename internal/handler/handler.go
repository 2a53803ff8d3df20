package handler

import (
	"errors"
	"net/http"

	"platero/internal/ledger"
	"platero/internal/models"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser pulls the authenticated user placed in the context by
// AuthMiddleware. On failure it writes the 401 response and returns nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	return user
}

// writeDomainError maps core errors onto the response envelope: validation
// failures to 400, state-transition failures to 409, protect-on-delete to
// 409, missing rows to 404, everything else to 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrAlreadyApplied), errors.Is(err, ledger.ErrNotApplied):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, ledger.ErrProtected):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed")
	}
}
