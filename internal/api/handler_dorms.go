package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

// dashboardResponse aggregates the dorm's headline numbers.
type dashboardResponse struct {
	Dorm            model.Dorm                     `json:"dorm"`
	ActiveOccupants int64                          `json:"activeOccupants"`
	OpenFines       int64                          `json:"openFines"`
	LedgerSummary   map[model.LedgerCategory]int64 `json:"ledgerSummary"`
	UpcomingEvents  int64                          `json:"upcomingEvents"`
}

// GetDashboard handles GET /api/dorms/{dorm_id}/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	var resp dashboardResponse
	if err := db.First(&resp.Dorm, dormID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dorm not found"})
		return
	}

	if err := db.Model(&model.Occupant{}).
		Where("dorm_id = ? AND status = ?", dormID, model.OccupantActive).
		Count(&resp.ActiveOccupants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate occupants"})
		return
	}

	if err := db.Model(&model.Fine{}).
		Where("dorm_id = ? AND voided = ?", dormID, false).
		Count(&resp.OpenFines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate fines"})
		return
	}

	summary, err := h.store.DormLedgerSummary(c.Request.Context(), dormID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate ledger"})
		return
	}
	resp.LedgerSummary = summary

	if err := db.Model(&model.Event{}).
		Where("dorm_id = ? AND status = ?", dormID, model.EventPublished).
		Count(&resp.UpcomingEvents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate events"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
