package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
)

// ListOccupants handles GET /api/dorms/{dorm_id}/occupants.
func (h *Handler) ListOccupants(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	q := h.store.DB().WithContext(c.Request.Context()).Where("dorm_id = ?", dormID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var occupants []model.Occupant
	if err := q.Order("roster_number").Find(&occupants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve occupants"})
		return
	}
	c.JSON(http.StatusOK, occupants)
}

type createOccupantRequest struct {
	RosterNumber string `json:"rosterNumber" binding:"required"`
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone"`
	UserID       *int64 `json:"userId"`
}

// CreateOccupant handles POST /api/dorms/{dorm_id}/occupants.
func (h *Handler) CreateOccupant(c *gin.Context) {
	var req createOccupantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	occupant := model.Occupant{
		DormID:       dormID,
		UserID:       req.UserID,
		RosterNumber: req.RosterNumber,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Status:       model.OccupantActive,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&occupant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create occupant"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"occupant.create", occupant.RosterNumber, occupant.FullName)
	c.JSON(http.StatusCreated, occupant)
}

type updateOccupantRequest struct {
	FullName *string               `json:"fullName"`
	Phone    *string               `json:"phone"`
	Status   *model.OccupantStatus `json:"status"`
}

// UpdateOccupant handles PATCH /api/dorms/{dorm_id}/occupants/{id}.
func (h *Handler) UpdateOccupant(c *gin.Context) {
	occupantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occupant ID"})
		return
	}

	var req updateOccupantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	var occupant model.Occupant
	if err := db.Where("id = ? AND dorm_id = ?", occupantID, dormID).First(&occupant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "occupant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve occupant"})
		}
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := db.Model(&occupant).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update occupant"})
			return
		}
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"occupant.update", occupant.RosterNumber, "")
	c.JSON(http.StatusOK, occupant)
}

// GetOccupantBalance handles GET /api/dorms/{dorm_id}/occupants/{id}/balance.
func (h *Handler) GetOccupantBalance(c *gin.Context) {
	occupantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occupant ID"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	var occupant model.Occupant
	err = h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", occupantID, dormID).First(&occupant).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "occupant not found"})
		return
	}

	balance, err := h.store.OccupantBalance(c.Request.Context(), occupantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupantId": occupantID, "balance": balance})
}

// ListRooms handles GET /api/dorms/{dorm_id}/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	var rooms []model.Room
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("dorm_id = ?", dormID).Order("floor, number").Find(&rooms).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Number   string `json:"number" binding:"required"`
	Floor    int    `json:"floor"`
	Capacity int    `json:"capacity"`
}

// CreateRoom handles POST /api/dorms/{dorm_id}/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	room := model.Room{DormID: dormID, Number: req.Number, Floor: req.Floor, Capacity: req.Capacity}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, room)
}

type assignRoomRequest struct {
	OccupantID int64     `json:"occupantId" binding:"required"`
	RoomID     int64     `json:"roomId" binding:"required"`
	StartDate  time.Time `json:"startDate" binding:"required"`
}

// AssignRoom handles POST /api/dorms/{dorm_id}/assignments.
func (h *Handler) AssignRoom(c *gin.Context) {
	var req assignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	assignment, err := h.store.AssignRoom(c.Request.Context(), dormID, req.OccupantID, req.RoomID, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"room.assign", strconv.FormatInt(req.OccupantID, 10), strconv.FormatInt(req.RoomID, 10))
	c.JSON(http.StatusCreated, assignment)
}
