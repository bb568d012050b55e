package store

import (
	"context"
	"log"
	"time"

	"dormops-backend/internal/model"
)

// RecordAudit writes one audit row. Failures are logged and swallowed so
// the primary action still succeeds.
func (s *gormStore) RecordAudit(ctx context.Context, dormID, userID int64, action, subject, detail string) {
	row := model.AuditLog{
		DormID:  dormID,
		UserID:  userID,
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("audit write failed (action=%s dorm=%d user=%d): %v", action, dormID, userID, err)
	}
}

// CountRecentActions counts the user's audit rows for an action within the
// window. Used to limit organizer calls; best-effort under concurrency.
func (s *gormStore) CountRecentActions(ctx context.Context, dormID, userID int64, action string, window time.Duration) (int64, error) {
	var count int64
	since := time.Now().Add(-window)
	err := s.db.WithContext(ctx).
		Model(&model.AuditLog{}).
		Where("dorm_id = ? AND user_id = ? AND action = ? AND created_at >= ?", dormID, userID, action, since).
		Count(&count).Error
	return count, err
}
