package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

type subscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256DH string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// PutSubscription handles PUT /api/subscriptions. Re-subscribing with the
// same endpoint updates the keys in place.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := model.PushSubscription{
		Endpoint: req.Endpoint,
		UserID:   c.GetInt64(mw.ContextUserID),
		P256DH:   req.Keys.P256DH,
		Auth:     req.Keys.Auth,
	}
	err := h.store.DB().WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
		}).Create(&sub).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store subscription"})
		return
	}
	c.Status(http.StatusNoContent)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles DELETE /api/subscriptions. Callers can only
// remove their own subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.DB().WithContext(c.Request.Context()).
		Where("endpoint = ? AND user_id = ?", req.Endpoint, c.GetInt64(mw.ContextUserID)).
		Delete(&model.PushSubscription{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove subscription"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVAPIDPublicKey handles GET /api/vapid_public_key. The browser needs the
// public key to create a push subscription.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.push == nil || h.push.PublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.push.PublicKey})
}
