// Package reactions enforces the one-reaction-per-(actor,target) rule
// and computes the counter delta the caller applies to the target's
// denormalized reaction count.
package reactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/syncutil"
)

// Result is the outcome of a toggle.
type Result int

const (
	// Created means a new reaction row was written.
	Created Result = iota
	// Removed means the actor's existing reaction was deleted.
	Removed
	// Replaced is reserved for a kind-update path. The current contract
	// is toggle-delete-on-repeat, matching the reaction endpoints this
	// ledger replaces, so no code path returns it today. Kept so the
	// result type doesn't change shape if kind-update is ever added.
	Replaced
)

func (r Result) String() string {
	switch r {
	case Created:
		return "created"
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	}
	return "unknown"
}

// Target identifies the object being reacted to.
type Target struct {
	Type string // models.TargetPost or models.TargetComment
	ID   string
}

// Toggle is the result of a toggle operation. Delta is +1, -1 or 0 and
// must be applied to the target's denormalized counter by the caller,
// with an atomic increment, as part of the same mutation.
type Toggle struct {
	Result Result
	Delta  int
	Kind   string
}

// Store is the persistence the ledger needs. Get returns errs.NotFound
// when the actor has no reaction on the target.
type Store interface {
	GetReaction(ctx context.Context, actorID uint, targetID, targetType string) (*models.Reaction, error)
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, actorID uint, targetID, targetType string) error
}

// Ledger serializes toggles per (actor, target) so concurrent repeats by
// the same actor cannot interleave the lookup with the write. Toggles on
// different keys run in parallel.
type Ledger struct {
	store Store
	locks *syncutil.KeyedMutex
}

// NewLedger returns a Ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{
		store: store,
		locks: syncutil.NewKeyedMutex(),
	}
}

// Toggle records or removes the actor's reaction on the target. A first
// reaction creates the row (delta +1); any repeat by the same actor
// deletes it (delta -1), regardless of kind.
func (l *Ledger) Toggle(ctx context.Context, actorID uint, target Target, kind string) (Toggle, error) {
	unlock := l.locks.Lock(fmt.Sprintf("%d|%s|%s", actorID, target.Type, target.ID))
	defer unlock()

	existing, err := l.store.GetReaction(ctx, actorID, target.ID, target.Type)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return Toggle{}, err
	}

	if existing != nil {
		if err := l.store.DeleteReaction(ctx, actorID, target.ID, target.Type); err != nil {
			return Toggle{}, err
		}
		return Toggle{Result: Removed, Delta: -1, Kind: existing.Kind}, nil
	}

	reaction := &models.Reaction{
		ActorID:    actorID,
		TargetID:   target.ID,
		TargetType: target.Type,
		Kind:       kind,
	}
	if err := l.store.CreateReaction(ctx, reaction); err != nil {
		return Toggle{}, err
	}
	return Toggle{Result: Created, Delta: +1, Kind: kind}, nil
}
