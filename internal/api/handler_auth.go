package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dormops-backend/internal/auth"
	"dormops-backend/internal/authz"
	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Register creates a user account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := model.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	token, err := h.jwt.Generate(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.jwt.Generate(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetMyDorms lists the dorms the caller belongs to, with their role in each.
func (h *Handler) GetMyDorms(c *gin.Context) {
	userID := c.GetInt64(mw.ContextUserID)

	var memberships []model.DormMembership
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Dorm").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve dorms"})
		return
	}

	type dormEntry struct {
		Dorm model.Dorm `json:"dorm"`
		Role model.Role `json:"role"`
	}
	entries := make([]dormEntry, len(memberships))
	for i, m := range memberships {
		entries[i] = dormEntry{Dorm: m.Dorm, Role: m.Role}
	}
	c.JSON(http.StatusOK, entries)
}

// WhoAmI reports the caller's roles and allowed operations in this dorm.
func (h *Handler) WhoAmI(c *gin.Context) {
	roles := mw.Roles(c)
	ops := make(map[authz.Operation]bool)
	for _, role := range roles {
		for _, op := range authz.Operations(role) {
			ops[op] = true
		}
	}
	allowed := make([]authz.Operation, 0, len(ops))
	for op := range ops {
		allowed = append(allowed, op)
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":     c.GetInt64(mw.ContextUserID),
		"dormId":     c.GetInt64(mw.ContextDormID),
		"roles":      roles,
		"operations": allowed,
	})
}
