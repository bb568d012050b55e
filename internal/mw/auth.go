package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/auth"
	"dormops-backend/internal/authz"
	"dormops-backend/internal/model"
	"dormops-backend/internal/store"
)

// Context keys set by the middleware chain.
const (
	ContextUserID   = "user_id"
	ContextUserKey  = "user_key"  // string form, used as rate-limit key
	ContextRolesKey = "roles_key" // joined roles, used in cache keys
	ContextRoles    = "roles"
	ContextDormID   = "dorm_id"
)

const permissionDenied = "you do not have permission to perform this action"

// RequireAuth validates the bearer token and stores the user ID in the
// request context.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserKey, strconv.FormatInt(claims.UserID, 10))
		c.Next()
	}
}

// ResolveMembership parses the dorm_id path parameter and loads the roles
// the authenticated user holds in that dorm. Non-members are rejected
// before any handler runs.
func ResolveMembership(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		dormID, err := strconv.ParseInt(c.Param("dorm_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid dorm ID"})
			return
		}

		userID := c.GetInt64(ContextUserID)
		roles, err := s.RolesFor(c.Request.Context(), userID, dormID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve membership"})
			return
		}
		if len(roles) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": permissionDenied})
			return
		}

		roleNames := make([]string, len(roles))
		for i, r := range roles {
			roleNames[i] = string(r)
		}

		c.Set(ContextDormID, dormID)
		c.Set(ContextRoles, roles)
		c.Set(ContextRolesKey, strings.Join(roleNames, ","))
		c.Next()
	}
}

// Require gates a route on one operation from the central policy table.
func Require(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(ContextRoles)
		held, ok := roles.([]model.Role)
		if !ok || !authz.Allowed(held, op) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": permissionDenied})
			return
		}
		c.Next()
	}
}

// Roles returns the caller's roles in the current dorm.
func Roles(c *gin.Context) []model.Role {
	roles, _ := c.Get(ContextRoles)
	held, _ := roles.([]model.Role)
	return held
}
