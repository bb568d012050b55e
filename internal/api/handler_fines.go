package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/email"
	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
	"dormops-backend/internal/notification"
	"dormops-backend/internal/store"
)

// ListFineRules handles GET /api/dorms/{dorm_id}/fine-rules.
func (h *Handler) ListFineRules(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	var rules []model.FineRule
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("dorm_id = ? AND active = ?", dormID, true).Order("name").Find(&rules).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve fine rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

type createFineRuleRequest struct {
	Name          string `json:"name" binding:"required"`
	DefaultAmount int64  `json:"defaultAmount" binding:"required,gt=0"`
}

// CreateFineRule handles POST /api/dorms/{dorm_id}/fine-rules.
func (h *Handler) CreateFineRule(c *gin.Context) {
	var req createFineRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	rule := model.FineRule{DormID: dormID, Name: req.Name, DefaultAmount: req.DefaultAmount, Active: true}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create fine rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListFines handles GET /api/dorms/{dorm_id}/fines. Occupant-role callers
// only see their own fines.
func (h *Handler) ListFines(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)
	// Columns are qualified because the occupant-role branch joins occupants,
	// which carries a dorm_id of its own.
	q := h.store.DB().WithContext(c.Request.Context()).
		Preload("Occupant").Where("fines.dorm_id = ?", dormID)

	if occupantParam := c.Query("occupant_id"); occupantParam != "" {
		occupantID, err := strconv.ParseInt(occupantParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occupant ID"})
			return
		}
		q = q.Where("fines.occupant_id = ?", occupantID)
	}
	if onlyOccupantRole(mw.Roles(c)) {
		q = q.Joins("JOIN occupants ON occupants.id = fines.occupant_id").
			Where("occupants.user_id = ?", c.GetInt64(mw.ContextUserID))
	}

	var fines []model.Fine
	if err := q.Order("fines.created_at DESC").Find(&fines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve fines"})
		return
	}
	c.JSON(http.StatusOK, fines)
}

// onlyOccupantRole reports whether the caller holds no staff role.
func onlyOccupantRole(roles []model.Role) bool {
	for _, r := range roles {
		if r != model.RoleOccupant {
			return false
		}
	}
	return len(roles) > 0
}

type issueFineRequest struct {
	OccupantID int64  `json:"occupantId" binding:"required"`
	SemesterID *int64 `json:"semesterId"`
	RuleID     *int64 `json:"ruleId"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason" binding:"required"`
}

// IssueFine handles POST /api/dorms/{dorm_id}/fines. The fine and its
// mirrored ledger entry are written in one transaction; the occupant is
// notified after commit.
func (h *Handler) IssueFine(c *gin.Context) {
	var req issueFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	fine, err := h.store.IssueFine(c.Request.Context(), store.IssueFineParams{
		DormID:     dormID,
		OccupantID: req.OccupantID,
		SemesterID: req.SemesterID,
		RuleID:     req.RuleID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		IssuedByID: userID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"fine.issue", strconv.FormatInt(fine.ID, 10), req.Reason)
	h.notifyFine(c, fine)

	c.JSON(http.StatusCreated, fine)
}

// notifyFine pushes and emails the fined occupant, best-effort.
func (h *Handler) notifyFine(c *gin.Context, fine *model.Fine) {
	var occupant model.Occupant
	err := h.store.DB().WithContext(c.Request.Context()).First(&occupant, fine.OccupantID).Error
	if err != nil || occupant.UserID == nil {
		return
	}

	body := fmt.Sprintf("A fine of %.2f was issued to you: %s", float64(fine.Amount)/100, fine.Reason)
	if h.pool != nil {
		h.pool.Dispatch(notification.Notice{UserID: *occupant.UserID, Title: "Fine issued", Body: body})
	}
	if h.email != nil {
		var user model.User
		if err := h.store.DB().First(&user, *occupant.UserID).Error; err == nil {
			h.email.Send(emailFineNotice(user, body))
		}
	}
}

func emailFineNotice(user model.User, body string) email.Message {
	return email.Message{
		ToName:    user.DisplayName,
		ToAddress: user.Email,
		Subject:   "Fine issued",
		Body:      body,
	}
}

type voidFineRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidFine handles POST /api/dorms/{dorm_id}/fines/{id}/void.
func (h *Handler) VoidFine(c *gin.Context) {
	fineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fine ID"})
		return
	}

	var req voidFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	// Fines of other dorms are invisible here.
	var existing model.Fine
	if err := h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", fineID, dormID).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fine not found"})
		return
	}

	fine, err := h.store.VoidFine(c.Request.Context(), fineID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, store.ErrFineVoided) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"fine.void", strconv.FormatInt(fine.ID, 10), req.Reason)
	c.JSON(http.StatusOK, fine)
}
