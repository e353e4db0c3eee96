package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// flakyStore fails the first failures calls to Create, then behaves.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	inner    *memNotificationStore
}

func (s *flakyStore) GetByKey(ctx context.Context, recipientID uint, t Type, objectID string) (*models.Notification, error) {
	return s.inner.GetByKey(ctx, recipientID, t, objectID)
}

func (s *flakyStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return errs.NotFound // any persistence error will do
	}
	s.mu.Unlock()
	return s.inner.Create(ctx, n)
}

func (s *flakyStore) Update(ctx context.Context, n *models.Notification) error {
	return s.inner.Update(ctx, n)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSinkDeliversEvent(t *testing.T) {
	store := newMemNotificationStore()
	agg := NewAggregator(store, newMemCounter())
	sink := NewSink(agg, logrus.New(), SinkOptions{Workers: 2})
	defer sink.Close()

	sink.Record(Event{
		ActorID:    1,
		ActorName:  "ana",
		ReceiverID: 2,
		Type:       TypeFriendRequest,
		ObjectID:   "fr-1",
	})

	waitFor(t, func() bool { return store.count() == 1 })
}

// Record must return immediately even when persistence is failing; the
// worker retries with backoff and eventually lands the event.
func TestSinkRetriesTransientFailures(t *testing.T) {
	store := &flakyStore{failures: 2, inner: newMemNotificationStore()}
	agg := NewAggregator(store, newMemCounter())
	sink := NewSink(agg, logrus.New(), SinkOptions{Workers: 1, MaxRetries: 3, Backoff: 5 * time.Millisecond})
	defer sink.Close()

	start := time.Now()
	sink.Record(Event{ActorID: 1, ActorName: "ana", ReceiverID: 2, Type: TypeFriendRequest, ObjectID: "fr-1"})
	require.Less(t, time.Since(start), 50*time.Millisecond, "Record must not block on retries")

	waitFor(t, func() bool { return store.inner.count() == 1 })
}

// After retries are exhausted the event is dropped; the sink keeps
// running and later events still land.
func TestSinkDropsAfterExhaustedRetries(t *testing.T) {
	store := &flakyStore{failures: 10, inner: newMemNotificationStore()}
	agg := NewAggregator(store, newMemCounter())

	log := logrus.New()
	sink := NewSink(agg, log, SinkOptions{Workers: 1, MaxRetries: 2, Backoff: time.Millisecond})
	defer sink.Close()

	sink.Record(Event{ActorID: 1, ActorName: "ana", ReceiverID: 2, Type: TypeFriendRequest, ObjectID: "fr-1"})

	// Burn through the failing attempts, then confirm recovery.
	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.failures <= 8 // first event consumed its 2 attempts
	})

	store.mu.Lock()
	store.failures = 0
	store.mu.Unlock()

	sink.Record(Event{ActorID: 1, ActorName: "ana", ReceiverID: 3, Type: TypeFriendRequest, ObjectID: "fr-2"})
	waitFor(t, func() bool { return store.inner.count() == 1 })
	assert.Equal(t, 1, store.inner.count(), "only the second event landed")
}
