package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
	"dormops-backend/internal/store"
)

// ListCommittees handles GET /api/dorms/{dorm_id}/committees.
func (h *Handler) ListCommittees(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	var committees []model.Committee
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Members").
		Where("dorm_id = ?", dormID).Order("name").Find(&committees).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve committees"})
		return
	}
	c.JSON(http.StatusOK, committees)
}

type createCommitteeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCommittee handles POST /api/dorms/{dorm_id}/committees.
func (h *Handler) CreateCommittee(c *gin.Context) {
	var req createCommitteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	committee := model.Committee{DormID: dormID, Name: req.Name, Description: req.Description}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&committee).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a committee with this name already exists"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"committee.create", committee.Name, "")
	c.JSON(http.StatusCreated, committee)
}

type addCommitteeMemberRequest struct {
	UserID int64               `json:"userId" binding:"required"`
	Role   model.CommitteeRole `json:"role" binding:"required"`
}

// AddCommitteeMember handles POST /api/dorms/{dorm_id}/committees/{id}/members.
func (h *Handler) AddCommitteeMember(c *gin.Context) {
	committeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid committee ID"})
		return
	}

	var req addCommitteeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Role {
	case model.CommitteeHead, model.CommitteeCoHead, model.CommitteeMemberRole:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown committee role"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	var committee model.Committee
	if err := db.Where("id = ? AND dorm_id = ?", committeeID, dormID).First(&committee).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "committee not found"})
		return
	}

	member := model.CommitteeMember{CommitteeID: committeeID, UserID: req.UserID, Role: req.Role}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user is already a member of this committee"})
		return
	}
	c.JSON(http.StatusCreated, member)
}

type addCommitteeExpenseRequest struct {
	Amount  int64     `json:"amount" binding:"required,gt=0"`
	Memo    string    `json:"memo" binding:"required"`
	SpentAt time.Time `json:"spentAt" binding:"required"`
}

// AddCommitteeExpense handles POST /api/dorms/{dorm_id}/committees/{id}/expenses.
// The expense and its mirrored maintenance ledger entry are written in one
// transaction.
func (h *Handler) AddCommitteeExpense(c *gin.Context) {
	committeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid committee ID"})
		return
	}

	var req addCommitteeExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	var committee model.Committee
	err = h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", committeeID, dormID).First(&committee).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "committee not found"})
		return
	}

	expense, err := h.store.AddCommitteeExpense(c.Request.Context(), store.CommitteeExpenseParams{
		CommitteeID: committeeID,
		Amount:      req.Amount,
		Memo:        req.Memo,
		SpentAt:     req.SpentAt,
		EnteredBy:   userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record expense"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"committee.expense", strconv.FormatInt(expense.ID, 10), req.Memo)
	c.JSON(http.StatusCreated, expense)
}
