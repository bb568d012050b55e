package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

// ListCleaningTasks handles GET /api/dorms/{dorm_id}/cleaning. Supports an
// optional weekday filter.
func (h *Handler) ListCleaningTasks(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)
	q := h.store.DB().WithContext(c.Request.Context()).Where("dorm_id = ?", dormID)

	if weekdayParam := c.Query("weekday"); weekdayParam != "" {
		weekday, err := strconv.Atoi(weekdayParam)
		if err != nil || weekday < 0 || weekday > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weekday must be 0 (Sunday) through 6 (Saturday)"})
			return
		}
		q = q.Where("weekday = ?", weekday)
	}

	var tasks []model.CleaningTask
	if err := q.Order("weekday, area").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve cleaning tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createCleaningTaskRequest struct {
	Area       string `json:"area" binding:"required"`
	Weekday    *int   `json:"weekday" binding:"required"`
	SemesterID *int64 `json:"semesterId"`
	RoomID     *int64 `json:"roomId"`
	OccupantID *int64 `json:"occupantId"`
}

// CreateCleaningTask handles POST /api/dorms/{dorm_id}/cleaning. A task is
// assigned to a room or to a single occupant, not both.
func (h *Handler) CreateCleaningTask(c *gin.Context) {
	var req createCleaningTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Weekday < 0 || *req.Weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weekday must be 0 (Sunday) through 6 (Saturday)"})
		return
	}
	if req.RoomID != nil && req.OccupantID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assign a room or an occupant, not both"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	if req.RoomID != nil {
		var room model.Room
		if err := db.Where("id = ? AND dorm_id = ?", *req.RoomID, dormID).First(&room).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
	}
	if req.OccupantID != nil {
		var occupant model.Occupant
		err := db.Where("id = ? AND dorm_id = ? AND status = ?",
			*req.OccupantID, dormID, model.OccupantActive).First(&occupant).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "occupant not found"})
			return
		}
	}

	task := model.CleaningTask{
		DormID:     dormID,
		SemesterID: req.SemesterID,
		Area:       req.Area,
		Weekday:    time.Weekday(*req.Weekday),
		RoomID:     req.RoomID,
		OccupantID: req.OccupantID,
	}
	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cleaning task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// DeleteCleaningTask handles DELETE /api/dorms/{dorm_id}/cleaning/{id}.
func (h *Handler) DeleteCleaningTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	result := h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", taskID, dormID).
		Delete(&model.CleaningTask{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cleaning task"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "cleaning task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
