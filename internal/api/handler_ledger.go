package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
	"dormops-backend/internal/store"
)

// ListLedger handles GET /api/dorms/{dorm_id}/ledger. Supports filtering by
// category and occupant; voided entries are included so corrections stay
// visible.
func (h *Handler) ListLedger(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)
	q := h.store.DB().WithContext(c.Request.Context()).Where("dorm_id = ?", dormID)

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if occupantParam := c.Query("occupant_id"); occupantParam != "" {
		occupantID, err := strconv.ParseInt(occupantParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occupant ID"})
			return
		}
		q = q.Where("occupant_id = ?", occupantID)
	}

	var entries []model.LedgerEntry
	if err := q.Order("entry_date DESC, id DESC").Limit(500).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve ledger"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetLedgerSummary handles GET /api/dorms/{dorm_id}/ledger/summary.
func (h *Handler) GetLedgerSummary(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	summary, err := h.store.DormLedgerSummary(c.Request.Context(), dormID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate ledger"})
		return
	}

	var total int64
	for _, amount := range summary {
		total += amount
	}
	c.JSON(http.StatusOK, gin.H{"byCategory": summary, "total": total})
}

type addLedgerEntryRequest struct {
	OccupantID *int64               `json:"occupantId"`
	Category   model.LedgerCategory `json:"category" binding:"required"`
	Amount     int64                `json:"amount" binding:"required"`
	Memo       string               `json:"memo"`
	EntryDate  time.Time            `json:"entryDate" binding:"required"`
}

// AddLedgerEntry handles POST /api/dorms/{dorm_id}/ledger.
func (h *Handler) AddLedgerEntry(c *gin.Context) {
	var req addLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Category {
	case model.LedgerMaintenance, model.LedgerFines, model.LedgerEvents:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ledger category"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	entry, err := h.store.AddLedgerEntry(c.Request.Context(), store.LedgerEntryParams{
		DormID:     dormID,
		OccupantID: req.OccupantID,
		Category:   req.Category,
		Amount:     req.Amount,
		Memo:       req.Memo,
		EntryDate:  req.EntryDate,
		EnteredBy:  userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record entry"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"ledger.add", strconv.FormatInt(entry.ID, 10), req.Memo)
	c.JSON(http.StatusCreated, entry)
}

type voidLedgerEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidLedgerEntry handles POST /api/dorms/{dorm_id}/ledger/{id}/void.
func (h *Handler) VoidLedgerEntry(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry ID"})
		return
	}

	var req voidLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	var existing model.LedgerEntry
	if err := h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", entryID, dormID).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	entry, err := h.store.VoidLedgerEntry(c.Request.Context(), entryID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyVoided) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"ledger.void", strconv.FormatInt(entry.ID, 10), req.Reason)
	c.JSON(http.StatusOK, entry)
}
