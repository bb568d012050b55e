package api

import (
	"dormops-backend/config"
	"dormops-backend/internal/ai"
	"dormops-backend/internal/auth"
	"dormops-backend/internal/email"
	"dormops-backend/internal/notification"
	"dormops-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	jwt       *auth.JWTManager
	organizer *ai.Client
	orgCfg    *config.OrganizerConfig
	push      *config.PushConfig
	email     email.Sender
	pool      *notification.WorkerPool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, jwt *auth.JWTManager, organizer *ai.Client, orgCfg *config.OrganizerConfig, push *config.PushConfig, sender email.Sender, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:     s,
		jwt:       jwt,
		organizer: organizer,
		orgCfg:    orgCfg,
		push:      push,
		email:     sender,
		pool:      pool,
	}
}
