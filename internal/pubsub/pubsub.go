package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Topics carried on the bus.
const (
	// TopicAuthState carries auth.StateChange events whenever a session logs in, logs out or expires.
	TopicAuthState = "auth.state"
	// TopicAnalysisRequested carries analysis jobs queued by the analysis function or a confirmed prompt.
	TopicAnalysisRequested = "analysis.requested"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to.
	Topic string
	// UserID identifies the user the message concerns.
	UserID string
	// Payload contains the raw message data, usually JSON.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with the handler
	// on a background goroutine until ctx is cancelled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// PublishJSON marshals v and publishes it on topic.
func PublishJSON(ctx context.Context, pub Publisher, topic, userID string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	return pub.Publish(ctx, Message{Topic: topic, UserID: userID, Payload: payload})
}

// Decode unmarshals the message payload into T.
func Decode[T any](msg Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", msg.Topic, err)
	}
	return v, nil
}

// TopicInfo describes a topic carried on the bus.
type TopicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Topics lists every topic the application publishes.
func Topics() []TopicInfo {
	return []TopicInfo{
		{
			Name:        TopicAuthState,
			Description: "Session logged in, logged out or expired",
			Example:     `{"session_id":"5f0c...","authenticated":false,"loading":false}`,
		},
		{
			Name:        TopicAnalysisRequested,
			Description: "Prompt response or confirmed prompt queued for analysis",
			Example:     `{"job_id":"9b1d...","response_id":"response:r1","source":"function"}`,
		},
	}
}
