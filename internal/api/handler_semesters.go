package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dormops-backend/internal/model"
	"dormops-backend/internal/mw"
	"dormops-backend/internal/store"
)

// ListSemesters handles GET /api/dorms/{dorm_id}/semesters.
func (h *Handler) ListSemesters(c *gin.Context) {
	dormID := c.GetInt64(mw.ContextDormID)

	var semesters []model.DormSemester
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("dorm_id = ?", dormID).Order("start_date DESC").Find(&semesters).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve semesters"})
		return
	}
	c.JSON(http.StatusOK, semesters)
}

type createSemesterRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Active    bool      `json:"active"`
}

// CreateSemester handles POST /api/dorms/{dorm_id}/semesters. At most one
// semester per dorm is active, so activating one deactivates the rest.
func (h *Handler) CreateSemester(c *gin.Context) {
	var req createSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester must end after it starts"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	semester := model.DormSemester{
		DormID:    dormID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    req.Active,
	}

	db := h.store.DB().WithContext(c.Request.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Active {
			if err := tx.Model(&model.DormSemester{}).
				Where("dorm_id = ? AND active = ?", dormID, true).
				Update("active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&semester).Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a semester with this name already exists"})
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, c.GetInt64(mw.ContextUserID),
		"semester.create", semester.Name, "")
	c.JSON(http.StatusCreated, semester)
}

type archiveSemesterRequest struct {
	NextSemesterID    *int64                 `json:"nextSemesterId"`
	NextSemester      *createSemesterRequest `json:"nextSemester"`
	Turnover          bool                   `json:"turnover"`
	RetainOccupantIDs []int64                `json:"retainOccupantIds"`
}

// ArchiveSemester handles POST /api/dorms/{dorm_id}/semesters/{id}/archive.
// The snapshot, the flag flip, the optional rollover, and the optional
// occupant turnover run in one transaction.
func (h *Handler) ArchiveSemester(c *gin.Context) {
	semesterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid semester ID"})
		return
	}

	var req archiveSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NextSemesterID != nil && req.NextSemester != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set nextSemesterId or nextSemester, not both"})
		return
	}

	dormID := c.GetInt64(mw.ContextDormID)
	userID := c.GetInt64(mw.ContextUserID)

	var semester model.DormSemester
	err = h.store.DB().WithContext(c.Request.Context()).
		Where("id = ? AND dorm_id = ?", semesterID, dormID).First(&semester).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "semester not found"})
		return
	}

	params := store.ArchiveParams{
		SemesterID:        semesterID,
		ArchivedBy:        userID,
		NextSemesterID:    req.NextSemesterID,
		Turnover:          req.Turnover,
		RetainOccupantIDs: req.RetainOccupantIDs,
	}
	if req.NextSemester != nil {
		params.NextSemester = &model.DormSemester{
			Name:      req.NextSemester.Name,
			StartDate: req.NextSemester.StartDate,
			EndDate:   req.NextSemester.EndDate,
		}
	}

	archive, err := h.store.ArchiveSemester(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyArchived):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrSemesterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive semester"})
		}
		return
	}

	h.store.RecordAudit(c.Request.Context(), dormID, userID,
		"semester.archive", strconv.FormatInt(semesterID, 10), "")
	c.JSON(http.StatusCreated, gin.H{
		"archiveId":  archive.ID,
		"semesterId": archive.SemesterID,
		"archivedAt": archive.CreatedAt,
	})
}
