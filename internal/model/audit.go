package model

import "time"

// AuditLog records one mutating action. Writes are best-effort: a failed
// audit insert is logged, not surfaced to the caller.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	DormID    int64     `gorm:"index;not null" json:"dormId"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	Action    string    `gorm:"size:64;not null;index" json:"action"`
	Subject   string    `gorm:"size:128" json:"subject"`
	Detail    string    `gorm:"size:1024" json:"detail"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
