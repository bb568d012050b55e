package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

var ErrOccupantRemoved = errors.New("occupant is no longer active")

// AssignRoom moves an occupant into a room. Both must belong to dormID.
// Any currently open assignment is closed at the new start date, so at most
// one open assignment per occupant ever exists.
func (s *gormStore) AssignRoom(ctx context.Context, dormID, occupantID, roomID int64, start time.Time) (*model.RoomAssignment, error) {
	var assignment model.RoomAssignment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupant model.Occupant
		if err := tx.First(&occupant, occupantID).Error; err != nil {
			return fmt.Errorf("occupant lookup: %w", err)
		}
		if occupant.DormID != dormID {
			return errors.New("occupant belongs to a different dorm")
		}
		if occupant.Status != model.OccupantActive {
			return ErrOccupantRemoved
		}

		var room model.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return fmt.Errorf("room lookup: %w", err)
		}
		if room.DormID != dormID {
			return errors.New("room belongs to a different dorm")
		}

		if err := tx.Model(&model.RoomAssignment{}).
			Where("occupant_id = ? AND end_date IS NULL", occupantID).
			Update("end_date", start).Error; err != nil {
			return fmt.Errorf("closing open assignment: %w", err)
		}

		assignment = model.RoomAssignment{
			OccupantID: occupantID,
			RoomID:     roomID,
			StartDate:  start,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return fmt.Errorf("creating assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
