package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/gin-gonic/gin"
)

const (
	HeaderStoreID = "X-Store-ID"
	HeaderUserID  = "X-User-ID"

	storeIDKey = "store_id"
	userIDKey  = "user_id"
)

// Tenant is the caller scope resolved at the edge. It is copied into every
// use-case input explicitly; nothing below the handlers reads it from a
// context.
type Tenant struct {
	StoreID string
	UserID  string
}

// RequireStore rejects requests without a store header, and writes without
// an operator header, then records both on the gin context. Authentication
// and role checks happen upstream.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := strings.TrimSpace(c.GetHeader(HeaderStoreID))
		if storeID == "" {
			rejectMissing(c, HeaderStoreID)
			return
		}
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" && isWrite(c.Request.Method) {
			rejectMissing(c, HeaderUserID)
			return
		}
		c.Set(storeIDKey, storeID)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func rejectMissing(c *gin.Context, header string) {
	apperror.RespondWithError(c, apperror.NewAPIError(http.StatusBadRequest, string(apperror.KindValidation), "missing "+header+" header", ""))
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func GetTenant(c *gin.Context) Tenant {
	return Tenant{
		StoreID: c.GetString(storeIDKey),
		UserID:  c.GetString(userIDKey),
	}
}
