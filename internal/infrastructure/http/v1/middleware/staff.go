package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "repairdesk/internal/core/context"
)

const (
	HeaderStaffID = "X-Staff-ID"
	HeaderShopID  = "X-Shop-ID"
)

// StaffContext copies the staff identity forwarded by the gateway into the
// request context. Requests without X-Staff-ID pass through anonymously.
//
// The identity is read by the audit trail and the idempotency store.
func StaffContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := strings.TrimSpace(c.GetHeader(HeaderStaffID))
		if staffID != "" {
			ctx := appctx.WithStaff(c.Request.Context(), &appctx.StaffContext{
				StaffID: staffID,
				ShopID:  strings.TrimSpace(c.GetHeader(HeaderShopID)),
			})
			c.Request = c.Request.WithContext(ctx)
			c.Set("staff_id", staffID)
		}
		c.Next()
	}
}
