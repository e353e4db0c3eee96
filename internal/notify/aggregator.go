// Package notify merges interaction events into notifications. Many
// independent "someone reacted/commented" events targeting the same
// object collapse into a single row whose message and distinct-actor
// count evolve as more actors arrive.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/syncutil"
)

// Event is one interaction to record. Object carries the render context
// for the message (post about, comment text, group/page slug).
type Event struct {
	ID         uuid.UUID
	ActorID    uint
	ActorName  string
	ReceiverID uint
	Type       Type
	ObjectID   string
	Object     string
}

// Store persists notification rows. GetByKey returns errs.NotFound when
// no row exists for the key.
type Store interface {
	GetByKey(ctx context.Context, recipientID uint, t Type, objectID string) (*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	Update(ctx context.Context, n *models.Notification) error
}

// ActorCounter recomputes the number of distinct actors who performed
// the given interaction type on the object, excluding the recipient.
// Backed by the reaction and comment tables.
type ActorCounter interface {
	DistinctActors(ctx context.Context, t Type, objectID string, excludeUserID uint) (int64, error)
}

// Aggregator is the per-key notification state machine. Operations on
// the same (recipient, type, object) key are strictly serialized through
// a keyed mutex; different keys run in parallel.
type Aggregator struct {
	store    Store
	counters ActorCounter
	locks    *syncutil.KeyedMutex
}

// NewAggregator returns an Aggregator over the given store and counter.
func NewAggregator(store Store, counters ActorCounter) *Aggregator {
	return &Aggregator{
		store:    store,
		counters: counters,
		locks:    syncutil.NewKeyedMutex(),
	}
}

// Record applies one event. Self-interaction is suppressed, never an
// error. Non-aggregating types insert a fresh row per event (their
// object id is unique per event, so keys never collide). Aggregating
// types create the row on first interaction and update it in place
// afterwards; a repeat by the current last actor leaves the row
// untouched.
//
// Removal is deliberately not handled: an actor who reacts and then
// un-reacts leaves the earlier count and message in place. Callers only
// forward Created toggles here.
func (a *Aggregator) Record(ctx context.Context, ev Event) (*models.Notification, error) {
	if ev.ActorID == ev.ReceiverID {
		return nil, nil
	}

	if !ev.Type.Aggregates() {
		n := &models.Notification{
			Type:               string(ev.Type),
			RecipientID:        ev.ReceiverID,
			ObjectID:           ev.ObjectID,
			ActorID:            ev.ActorID,
			ActorName:          ev.ActorName,
			DistinctActorCount: 1,
			Message:            directMessage(ev.Type, ev.ActorName, ev.Object),
		}
		if err := a.store.Create(ctx, n); err != nil {
			return nil, err
		}
		return n, nil
	}

	unlock := a.locks.Lock(fmt.Sprintf("%d|%s|%s", ev.ReceiverID, ev.Type, ev.ObjectID))
	defer unlock()

	existing, err := a.store.GetByKey(ctx, ev.ReceiverID, ev.Type, ev.ObjectID)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return nil, err
		}
		n := &models.Notification{
			Type:               string(ev.Type),
			RecipientID:        ev.ReceiverID,
			ObjectID:           ev.ObjectID,
			ActorID:            ev.ActorID,
			ActorName:          ev.ActorName,
			DistinctActorCount: 1,
			Message:            directMessage(ev.Type, ev.ActorName, ev.Object),
		}
		if err := a.store.Create(ctx, n); err != nil {
			return nil, err
		}
		return n, nil
	}

	if existing.ActorID == ev.ActorID {
		// Repeat by the same actor: idempotent, no re-render.
		return existing, nil
	}

	count, err := a.counters.DistinctActors(ctx, ev.Type, ev.ObjectID, ev.ReceiverID)
	if err != nil {
		return nil, err
	}
	if count < 2 {
		// The counter source lags the event (at-least-once delivery);
		// a new distinct actor implies at least two.
		count = 2
	}

	if count == 2 {
		existing.Message = pairMessage(ev.Type, ev.ActorName, existing.ActorName, ev.Object)
	} else {
		existing.Message = crowdMessage(ev.Type, ev.ActorName, count-1, ev.Object)
	}
	existing.ActorID = ev.ActorID
	existing.ActorName = ev.ActorName
	existing.DistinctActorCount = int(count)
	existing.IsRead = false

	if err := a.store.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
