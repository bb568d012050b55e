package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/ai"
	"dormops-backend/internal/mw"
)

const organizerAction = "organizer.invoke"

type draftConceptRequest struct {
	Brief string `json:"brief" binding:"required,max=2000"`
}

// DraftEventConcept handles POST /api/dorms/{dorm_id}/organizer/draft. Each
// caller gets a fixed number of drafts per 24 hours, counted off the audit
// log.
func (h *Handler) DraftEventConcept(c *gin.Context) {
	if h.organizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrNotConfigured.Error()})
		return
	}

	var req draftConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	used, err := h.store.CountRecentActions(c.Request.Context(), dormID, userID, organizerAction, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check usage"})
		return
	}
	if used >= int64(h.orgCfg.CallsPerDay) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "daily draft limit reached, try again tomorrow",
		})
		return
	}

	// Count the attempt before the upstream call so failures still burn
	// quota; otherwise a flaky upstream allows unbounded retries.
	h.store.RecordAudit(c.Request.Context(), dormID, userID, organizerAction, "", req.Brief)

	concept, err := h.organizer.DraftEventConcept(c.Request.Context(), req.Brief)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "organizer is unavailable right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"concept":   concept,
		"remaining": int64(h.orgCfg.CallsPerDay) - used - 1,
	})
}
