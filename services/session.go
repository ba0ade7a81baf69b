package services

import (
	"log"
	"sync"
)

// SessionEventType identifies what changed about a session.
type SessionEventType string

const (
	SessionSignedIn       SessionEventType = "signed_in"
	SessionSignedOut      SessionEventType = "signed_out"
	SessionTokenRefreshed SessionEventType = "token_refreshed"
)

// SessionEvent is broadcast process-wide whenever a session changes. UID is
// the identity-provider user id the event concerns.
type SessionEvent struct {
	Type SessionEventType
	UID  string
}

// sessionBroker fans session events out to subscribers. Guard-adjacent state
// (the identity cache) subscribes so that no access decision survives a
// logout unreviewed.
type sessionBroker struct {
	mu     sync.Mutex
	subs   map[int]func(SessionEvent)
	nextID int
}

var broker = &sessionBroker{subs: make(map[int]func(SessionEvent))}

// OnSessionChange registers a callback for session changes and returns an
// unsubscribe function. Callers must unsubscribe on teardown so callbacks are
// never invoked against dead state.
func OnSessionChange(fn func(SessionEvent)) (unsubscribe func()) {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	id := broker.nextID
	broker.nextID++
	broker.subs[id] = fn

	return func() {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		delete(broker.subs, id)
	}
}

// PublishSessionChange notifies every subscriber of a session change.
// Callbacks run synchronously so a guard re-evaluation subscribed here is
// complete before the publisher proceeds.
func PublishSessionChange(ev SessionEvent) {
	broker.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(broker.subs))
	for _, fn := range broker.subs {
		fns = append(fns, fn)
	}
	broker.mu.Unlock()

	log.Printf("Session change: %s for uid %s", ev.Type, ev.UID)

	for _, fn := range fns {
		fn(ev)
	}
}
