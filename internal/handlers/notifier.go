package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/repositories"
)

// Notifier resolves the acting user's display name and hands the event to
// the asynchronous sink. Emission never fails the request that caused it.
type Notifier struct {
	sink     *notify.Sink
	userRepo repositories.UserRepository
	log      *logrus.Logger
}

func NewNotifier(sink *notify.Sink, userRepo repositories.UserRepository, log *logrus.Logger) *Notifier {
	return &Notifier{sink: sink, userRepo: userRepo, log: log}
}

func (n *Notifier) emit(ctx context.Context, actorID, receiverID uint, t notify.Type, objectID, object string) {
	actor, err := n.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		n.log.WithError(err).WithField("actor_id", actorID).Warn("notification actor lookup failed, event dropped")
		return
	}
	n.sink.Record(notify.Event{
		ID:         uuid.New(),
		ActorID:    actorID,
		ActorName:  actor.Name,
		ReceiverID: receiverID,
		Type:       t,
		ObjectID:   objectID,
		Object:     object,
	})
}
