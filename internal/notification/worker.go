// Package notification delivers web push notices to users through a small
// worker pool, so slow push endpoints never block request handlers.
package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

// Notice is one queued notification for a user.
type Notice struct {
	UserID int64  `json:"-"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Notice
	db      *gorm.DB
	webpush *webpush.Options
	sender  PushSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Notice, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case notice := <-wp.jobs:
			wp.deliver(ctx, notice)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notice. It never blocks: when the queue is full the
// notice is dropped and logged, because notifications are best-effort.
func (wp *WorkerPool) Dispatch(notice Notice) {
	select {
	case wp.jobs <- notice:
	default:
		log.Printf("notification queue full, dropping notice for user %d", notice.UserID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}

// deliver sends the notice to every subscription the user holds.
func (wp *WorkerPool) deliver(ctx context.Context, notice Notice) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", notice.UserID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for user %d: %v", notice.UserID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		log.Printf("error encoding notice for user %d: %v", notice.UserID, err)
		return
	}

	for _, sub := range subscriptions {
		wp.sendOne(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendOne(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription for endpoint %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
