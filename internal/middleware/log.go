package middleware

import (
	"bytes"
	"io"
	"strings"

	"platero/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sensitiveBody reports whether the request body may carry credentials.
// Those bodies are never written to the audit log.
func sensitiveBody(path string) bool {
	return strings.Contains(path, "password") || strings.Contains(path, "/auth/")
}

// AuditMiddleware records the operations of authenticated users.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// only log operations of logged-in users
		var userID uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 && !sensitiveBody(path) {
			action += " " + string(bodyBytes)
		}

		log := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&log).Error
	}
}
