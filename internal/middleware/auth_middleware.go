package middleware

import (
	"net/http"
	"strings"

	"homecare_client/internal/transport"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextAccountID = "accountID"
	ContextRoleID    = "roleID"
	ContextOffline   = "offlineSession"
)

// AuthMiddleware creates a Gin middleware for session JWT authentication.
// The upstream bearer token carried in the session is attached to the
// request context for the transport.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Vui lòng đăng nhập", "Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Vui lòng đăng nhập", "Invalid authorization header format. Use Bearer <token>"))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Phiên đăng nhập đã hết hạn", err.Error()))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRoleID, claims.RoleID)
		c.Set(ContextOffline, claims.Offline)
		if claims.UpstreamToken != "" {
			c.Request = c.Request.WithContext(transport.WithToken(c.Request.Context(), claims.UpstreamToken))
		}

		c.Next()
	}
}

// RoleAuthMiddleware checks that the session role is one of allowedRoles.
func RoleAuthMiddleware(allowedRoles ...int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, exists := c.Get(ContextRoleID)
		if !exists {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Bạn không có quyền truy cập", "role not found in session. Ensure AuthMiddleware runs first."))
			return
		}

		role, ok := roleID.(int64)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Lỗi hệ thống", "role in session is not an int64"))
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Bạn không có quyền truy cập", "role "+utils.Int64ToStr(role)+" is not allowed"))
	}
}

// RequireOnline refuses the request for sessions opened while the backend
// was unreachable. Those sessions carry no upstream token and are read-only.
func RequireOnline() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ContextOffline) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUpstreamUnavailable, "Phiên ngoại tuyến chỉ được xem dữ liệu, vui lòng đăng nhập lại khi có kết nối", "offline session is read-only"))
			return
		}
		c.Next()
	}
}

// AccountID returns the session account set by AuthMiddleware.
func AccountID(c *gin.Context) int64 {
	return c.GetInt64(ContextAccountID)
}

// RoleID returns the session role set by AuthMiddleware.
func RoleID(c *gin.Context) int64 {
	return c.GetInt64(ContextRoleID)
}
