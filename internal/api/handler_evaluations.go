package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/evaluation"
	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

// ListEvaluationCycles handles GET /api/dorms/{dorm_id}/evaluations.
func (h *Handler) ListEvaluationCycles(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	var cycles []model.EvaluationCycle
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Criteria").
		Where("dorm_id = ?", dormID).Order("opens_at DESC").Find(&cycles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve cycles"})
		return
	}
	c.JSON(http.StatusOK, cycles)
}

type criterionInput struct {
	Name     string  `json:"name" binding:"required"`
	Weight   float64 `json:"weight" binding:"required,gt=0"`
	MaxScore int     `json:"maxScore"`
}

type createCycleRequest struct {
	Name       string           `json:"name" binding:"required"`
	SemesterID *int64           `json:"semesterId"`
	OpensAt    time.Time        `json:"opensAt" binding:"required"`
	ClosesAt   time.Time        `json:"closesAt" binding:"required"`
	Criteria   []criterionInput `json:"criteria" binding:"required,min=1,dive"`
}

// CreateEvaluationCycle handles POST /api/dorms/{dorm_id}/evaluations. The
// cycle and its criteria template are created together.
func (h *Handler) CreateEvaluationCycle(c *gin.Context) {
	var req createCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ClosesAt.After(req.OpensAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycle must close after it opens"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	cycle := model.EvaluationCycle{
		DormID:     dormID,
		SemesterID: req.SemesterID,
		Name:       req.Name,
		OpensAt:    req.OpensAt,
		ClosesAt:   req.ClosesAt,
	}
	for _, crit := range req.Criteria {
		maxScore := crit.MaxScore
		if maxScore <= 0 {
			maxScore = 10
		}
		cycle.Criteria = append(cycle.Criteria, model.EvaluationCriterion{
			Name:     crit.Name,
			Weight:   crit.Weight,
			MaxScore: maxScore,
		})
	}

	if err := h.store.DB().WithContext(c.Request.Context()).Create(&cycle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cycle"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"evaluation.create", strconv.FormatInt(cycle.ID, 10), cycle.Name)
	c.JSON(http.StatusCreated, cycle)
}

type submitEvaluationRequest struct {
	OccupantID int64              `json:"occupantId" binding:"required"`
	Scores     map[string]float64 `json:"scores" binding:"required"`
}

// SubmitEvaluation handles POST /api/dorms/{dorm_id}/evaluations/{id}/submissions.
// One submission per (cycle, occupant, rater); re-submitting overwrites the
// previous scores while the cycle is open.
func (h *Handler) SubmitEvaluation(c *gin.Context) {
	cycleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle ID"})
		return
	}

	var req submitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)
	db := h.store.DB().WithContext(c.Request.Context())

	var cycle model.EvaluationCycle
	err = db.Preload("Criteria").
		Where("id = ? AND dorm_id = ?", cycleID, dormID).First(&cycle).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
		return
	}

	now := time.Now()
	if cycle.Closed || now.Before(cycle.OpensAt) || now.After(cycle.ClosesAt) {
		c.JSON(http.StatusConflict, gin.H{"error": "cycle is not open for submissions"})
		return
	}

	var occupant model.Occupant
	err = db.Where("id = ? AND dorm_id = ? AND status = ?",
		req.OccupantID, dormID, model.OccupantActive).First(&occupant).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "occupant not found"})
		return
	}
	if occupant.UserID != nil && *occupant.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot evaluate yourself"})
		return
	}

	// Only criteria of this cycle may be scored.
	known := make(map[string]bool, len(cycle.Criteria))
	for _, crit := range cycle.Criteria {
		known[strconv.FormatInt(crit.ID, 10)] = true
	}
	for key := range req.Scores {
		if !known[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown criterion " + key})
			return
		}
	}

	blob, err := json.Marshal(req.Scores)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scores payload"})
		return
	}

	submission := model.EvaluationSubmission{
		CycleID:     cycleID,
		OccupantID:  req.OccupantID,
		SubmittedBy: userID,
		Scores:      string(blob),
	}
	err = db.Where("cycle_id = ? AND occupant_id = ? AND submitted_by = ?",
		cycleID, req.OccupantID, userID).
		Assign(model.EvaluationSubmission{Scores: string(blob)}).
		FirstOrCreate(&submission).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store submission"})
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// GetEvaluationResults handles GET /api/dorms/{dorm_id}/evaluations/{id}/results.
func (h *Handler) GetEvaluationResults(c *gin.Context) {
	cycleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle ID"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	var cycle model.EvaluationCycle
	err = db.Preload("Criteria").
		Where("id = ? AND dorm_id = ?", cycleID, dormID).First(&cycle).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
		return
	}

	var occupants []model.Occupant
	err = db.Where("dorm_id = ? AND status = ?", dormID, model.OccupantActive).
		Find(&occupants).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve occupants"})
		return
	}
	var submissions []model.EvaluationSubmission
	if err := db.Where("cycle_id = ?", cycleID).Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cycleId": cycleID,
		"results": evaluation.Rank(cycle.Criteria, occupants, submissions),
	})
}
