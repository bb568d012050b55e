package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormops-backend/internal/competition"
	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
	"dormops-backend/internal/notification"
)

// ListEvents handles GET /api/dorms/{dorm_id}/events. Occupant-role callers
// only see published events.
func (h *Handler) ListEvents(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)
	q := h.store.DB().WithContext(c.Request.Context()).Where("dorm_id = ?", dormID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if onlyOccupantRole(mw.Roles(c)) {
		q = q.Where("status = ?", model.EventPublished)
	}

	var events []model.Event
	if err := q.Order("starts_at DESC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

type createEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	SemesterID  *int64     `json:"semesterId"`
	CommitteeID *int64     `json:"committeeId"`
	Competition bool       `json:"competition"`
}

// CreateEvent handles POST /api/dorms/{dorm_id}/events. New events start in
// draft status.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event cannot end before it starts"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	event := model.Event{
		DormID:      dormID,
		SemesterID:  req.SemesterID,
		CommitteeID: req.CommitteeID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      model.EventDraft,
		Competition: req.Competition,
		CreatedByID: userID,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"event.create", strconv.FormatInt(event.ID, 10), event.Title)
	c.JSON(http.StatusCreated, event)
}

// PublishEvent handles POST /api/dorms/{dorm_id}/events/{id}/publish. Once
// published the event shows up for occupants and every dorm member gets a
// push notification.
func (h *Handler) PublishEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	db := h.store.DB().WithContext(c.Request.Context())

	var event model.Event
	if err := db.Where("id = ? AND dorm_id = ?", eventID, dormID).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if event.Status == model.EventPublished {
		c.JSON(http.StatusConflict, gin.H{"error": "event is already published"})
		return
	}
	if event.Status == model.EventCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "cancelled events cannot be published"})
		return
	}

	if err := db.Model(&event).Update("status", model.EventPublished).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish event"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"event.publish", strconv.FormatInt(event.ID, 10), event.Title)
	h.notifyEventPublished(c, &event)

	c.JSON(http.StatusOK, event)
}

// notifyEventPublished pushes the announcement to every dorm member,
// best-effort.
func (h *Handler) notifyEventPublished(c *gin.Context, event *model.Event) {
	if h.pool == nil {
		return
	}
	var memberships []model.DormMembership
	err := h.store.DB().WithContext(c.Request.Context()).
		Distinct("user_id").
		Where("dorm_id = ?", event.DormID).
		Find(&memberships).Error
	if err != nil {
		return
	}

	body := fmt.Sprintf("%s on %s", event.Title, event.StartsAt.Format("Mon, 2 Jan 15:04"))
	for _, m := range memberships {
		h.pool.Dispatch(notification.Notice{UserID: m.UserID, Title: "New event", Body: body})
	}
}

type createEventTeamRequest struct {
	Name         string `json:"name" binding:"required"`
	MemberCount  int    `json:"memberCount"`
	RankOverride *int   `json:"rankOverride"`
}

// CreateEventTeam handles POST /api/dorms/{dorm_id}/events/{id}/teams.
func (h *Handler) CreateEventTeam(c *gin.Context) {
	event, ok := h.competitionEvent(c)
	if !ok {
		return
	}

	var req createEventTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team := model.EventTeam{
		EventID:      event.ID,
		Name:         req.Name,
		MemberCount:  req.MemberCount,
		RankOverride: req.RankOverride,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&team).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a team with this name already exists"})
		return
	}
	c.JSON(http.StatusCreated, team)
}

type createScoreCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// CreateScoreCategory handles POST /api/dorms/{dorm_id}/events/{id}/categories.
func (h *Handler) CreateScoreCategory(c *gin.Context) {
	event, ok := h.competitionEvent(c)
	if !ok {
		return
	}

	var req createScoreCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := model.EventScoreCategory{EventID: event.ID, Name: req.Name, SortOrder: req.SortOrder}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a category with this name already exists"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

type awardScoreRequest struct {
	TeamID     int64 `json:"teamId" binding:"required"`
	CategoryID int64 `json:"categoryId" binding:"required"`
	// Pointer so an explicit zero-point award still binds.
	Points *int `json:"points" binding:"required"`
}

// AwardScore handles POST /api/dorms/{dorm_id}/events/{id}/scores. Scores
// are append-only rows; the leaderboard sums them per team and category.
func (h *Handler) AwardScore(c *gin.Context) {
	event, ok := h.competitionEvent(c)
	if !ok {
		return
	}

	var req awardScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var team model.EventTeam
	if err := db.Where("id = ? AND event_id = ?", req.TeamID, event.ID).First(&team).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}
	var category model.EventScoreCategory
	if err := db.Where("id = ? AND event_id = ?", req.CategoryID, event.ID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	score := model.EventScore{
		EventID:    event.ID,
		TeamID:     req.TeamID,
		CategoryID: req.CategoryID,
		Points:     *req.Points,
		AwardedBy:  c.GetInt64(mw.ContextUserID),
	}
	if err := db.Create(&score).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record score"})
		return
	}
	c.JSON(http.StatusCreated, score)
}

// GetLeaderboard handles GET /api/dorms/{dorm_id}/events/{id}/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	event, ok := h.competitionEvent(c)
	if !ok {
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var teams []model.EventTeam
	if err := db.Where("event_id = ?", event.ID).Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve teams"})
		return
	}
	var categories []model.EventScoreCategory
	if err := db.Where("event_id = ?", event.ID).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve categories"})
		return
	}
	var scores []model.EventScore
	if err := db.Where("event_id = ?", event.ID).Find(&scores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve scores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"eventId":   event.ID,
		"standings": competition.Leaderboard(teams, categories, scores),
	})
}

// competitionEvent loads the :id event, checks it belongs to the dorm and is
// in competition mode, and writes the error response itself on failure.
func (h *Handler) competitionEvent(c *gin.Context) (*model.Event, bool) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return nil, false
	}

	dormID := c.GetInt64(mw.ContextDormID)
	var event model.Event
	err = h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", eventID, dormID).First(&event).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil, false
	}
	if !event.Competition {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event is not in competition mode"})
		return nil, false
	}
	return &event, true
}
