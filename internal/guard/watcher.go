package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/pubsub"
)

// Watcher keeps one Guard per live connection and feeds it the auth state changes
// published for that connection's session.
type Watcher struct {
	sub       pubsub.Subscriber
	loginPath string

	mu       sync.Mutex
	sessions map[string]map[*Guard]struct{}
}

// NewWatcher creates a watcher that sends unauthenticated sessions to loginPath.
func NewWatcher(sub pubsub.Subscriber, loginPath string) *Watcher {
	return &Watcher{
		sub:       sub,
		loginPath: loginPath,
		sessions:  make(map[string]map[*Guard]struct{}),
	}
}

// Start subscribes to pubsub.TopicAuthState until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.sub.Subscribe(ctx, pubsub.TopicAuthState, w.handle); err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.TopicAuthState, err)
	}
	slog.Info("Auth state watcher started", "topic", pubsub.TopicAuthState)
	return nil
}

func (w *Watcher) handle(_ context.Context, msg pubsub.Message) error {
	change, err := pubsub.Decode[auth.StateChange](msg)
	if err != nil {
		return err
	}
	if change.SessionID == "" {
		return nil
	}
	fired := w.Observe(change.SessionID, change.State())
	slog.Debug("Auth state change observed", "session_id", change.SessionID, "authenticated", change.Authenticated, "navigations", fired)
	return nil
}

// Attach registers a live connection for sessionID. The initial state seeds the guard
// so that only later transitions navigate. The returned function detaches it.
func (w *Watcher) Attach(sessionID string, nav Navigator, initial auth.State) (detach func()) {
	gd := New(w.loginPath, nav)
	gd.Effect(initial)

	w.mu.Lock()
	set, ok := w.sessions[sessionID]
	if !ok {
		set = make(map[*Guard]struct{})
		w.sessions[sessionID] = set
	}
	set[gd] = struct{}{}
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.sessions[sessionID], gd)
		if len(w.sessions[sessionID]) == 0 {
			delete(w.sessions, sessionID)
		}
	}
}

// Observe feeds s to every guard attached to sessionID and returns how many navigated.
func (w *Watcher) Observe(sessionID string, s auth.State) int {
	w.mu.Lock()
	guards := make([]*Guard, 0, len(w.sessions[sessionID]))
	for gd := range w.sessions[sessionID] {
		guards = append(guards, gd)
	}
	w.mu.Unlock()

	fired := 0
	for _, gd := range guards {
		if gd.Effect(s) {
			fired++
		}
	}
	return fired
}

// Connections returns the number of live connections attached to sessionID.
func (w *Watcher) Connections(sessionID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions[sessionID])
}
