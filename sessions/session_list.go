package sessions

import (
	"fmt"
	"log"
	"sync"

	"github.com/glowlabs-ai/glowchat/stores"
)

// SessionList mirrors the signed-in user's conversation summaries via a live
// store subscription and reports selection upward. It reads the store
// directly; it never goes through the chat session (decoupled read path).
// Without a signed-in user the list stays empty and never subscribes.
type SessionList struct {
	Store  stores.ConversationStore
	Logger *log.Logger
	UserID string

	mu            sync.Mutex
	conversations []stores.ConversationInfo
	sub           *stores.Subscription
	done          chan struct{}
	started       bool
	onSelect      func(conversationID string)
}

// OnSelect registers the selection handler, typically the shell's.
func (l *SessionList) OnSelect(fn func(conversationID string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onSelect = fn
}

// Start opens the store subscription and begins mirroring snapshots. A list
// without a user is inert and Start is a no-op.
func (l *SessionList) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return &SessionError{Message: "session list already started"}
	}
	if l.UserID == "" {
		return nil
	}

	sub, err := l.Store.Subscribe(l.UserID)
	if err != nil {
		return &SessionError{
			Message: fmt.Sprintf("failed to subscribe to conversation list: %v", err),
			Fatal:   true,
		}
	}

	l.sub = sub
	l.done = make(chan struct{})
	l.started = true
	go l.consume(sub, l.done)
	return nil
}

func (l *SessionList) consume(sub *stores.Subscription, done chan struct{}) {
	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			l.mu.Lock()
			l.conversations = snapshot
			l.mu.Unlock()
		case <-done:
			return
		}
	}
}

// Conversations returns a copy of the current summaries, most recently
// updated first.
func (l *SessionList) Conversations() []stores.ConversationInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]stores.ConversationInfo(nil), l.conversations...)
}

// Select reports a selection upward. The list itself keeps no notion of the
// selected conversation; that belongs to the shell.
func (l *SessionList) Select(conversationID string) {
	l.mu.Lock()
	fn := l.onSelect
	l.mu.Unlock()

	if fn != nil {
		fn(conversationID)
	}
}

// Stop cancels the subscription and halts mirroring.
func (l *SessionList) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return
	}
	l.started = false
	l.sub.Cancel()
	close(l.done)
	l.sub = nil
	l.done = nil
}
