package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

// Actor is the authenticated identity performing an administrative action.
// It is attached to the request context by the authentication middleware and
// consumed by the authorization guard and audit stamps.
type Actor struct {
	ID      uuid.UUID
	Subject string
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

func UseActor(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(constants.ActorKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, ErrNoActor
	}
	return actor, nil
}
