package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	UserRegistered Type = "user.registered"
	UserLoggedIn   Type = "user.logged_in"
	SessionRefresh Type = "session.refreshed"
	SessionRevoked Type = "session.revoked"
)

type Event struct {
	Type       Type      `json:"type"`
	UserID     uuid.UUID `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers session lifecycle events. Delivery is best effort:
// callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
