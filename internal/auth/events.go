package auth

import (
	"context"

	"github.com/nfrund/insightboard/internal/pubsub"
)

// StateChange is published on pubsub.TopicAuthState when a session's auth state changes.
type StateChange struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id,omitempty"`
	Loading       bool   `json:"loading"`
	Authenticated bool   `json:"authenticated"`
}

// State converts the event back into the State a guard evaluates.
func (s StateChange) State() State {
	if s.Loading {
		return State{Loading: true}
	}
	if !s.Authenticated || s.UserID == "" {
		return State{}
	}
	return State{User: userFromID(s.UserID)}
}

// ChangeFor describes state for the given session.
func ChangeFor(sessionID string, state State) StateChange {
	return StateChange{
		SessionID:     sessionID,
		UserID:        state.UserKey(),
		Loading:       state.Loading,
		Authenticated: state.Authenticated(),
	}
}

// Events publishes auth state changes on the bus.
type Events struct {
	pub pubsub.Publisher
}

// NewEvents creates an event publisher.
func NewEvents(pub pubsub.Publisher) *Events {
	return &Events{pub: pub}
}

// Publish sends change on pubsub.TopicAuthState.
func (e *Events) Publish(ctx context.Context, change StateChange) error {
	return pubsub.PublishJSON(ctx, e.pub, pubsub.TopicAuthState, change.UserID, change)
}
