package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

// mockSender is a mock implementation of the PushSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))
	return db
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch(Notice{UserID: 123, Title: "Fine issued"})

	select {
	case notice := <-wp.jobs:
		assert.Equal(t, int64(123), notice.UserID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for notice to be dispatched")
	}
}

func TestWorkerPool_DeliversToAllSubscriptions(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/push/a", UserID: 7, P256DH: "k1", Auth: "a1",
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/push/b", UserID: 7, P256DH: "k2", Auth: "a2",
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/push/other", UserID: 8, P256DH: "k3", Auth: "a3",
	}).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})

	var mu sync.Mutex
	var endpoints []string
	var wg sync.WaitGroup
	wg.Add(2)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			var notice Notice
			require.NoError(t, json.Unmarshal(payload, &notice))
			assert.Equal(t, "Fine issued", notice.Title)

			mu.Lock()
			endpoints = append(endpoints, sub.Endpoint)
			mu.Unlock()
			wg.Done()
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Notice{UserID: 7, Title: "Fine issued", Body: "1500 for noise"})
	wg.Wait()

	assert.ElementsMatch(t, []string{
		"https://example.com/push/a",
		"https://example.com/push/b",
	}, endpoints)
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/expired", UserID: 9, P256DH: "k", Auth: "a",
	}).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Notice{UserID: 9, Title: "Event published"})

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).Count(&count)
		return count == 0
	}, 2*time.Second, 20*time.Millisecond)
}
