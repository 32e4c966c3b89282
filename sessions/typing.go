package sessions

import (
	"sync"
	"time"
)

// TypingIndicator tracks whether the user is actively editing the draft
// input. A keystroke lights it; one second of inactivity, or clearing the
// draft, turns it off. Purely cosmetic; it has no effect on send logic.
type TypingIndicator struct {
	mu     sync.Mutex
	decay  time.Duration
	typing bool
	timer  *time.Timer
}

// NewTypingIndicator creates an indicator with the standard one-second decay.
func NewTypingIndicator() *TypingIndicator {
	return newTypingIndicator(typingDecay)
}

func newTypingIndicator(decay time.Duration) *TypingIndicator {
	return &TypingIndicator{decay: decay}
}

// Keystroke marks the user as typing and restarts the inactivity timer.
func (t *TypingIndicator) Keystroke() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.typing = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.decay, t.expire)
}

// Clear forces the indicator idle immediately.
func (t *TypingIndicator) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.typing = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Active reports whether the user is currently typing.
func (t *TypingIndicator) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typing
}

func (t *TypingIndicator) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing = false
}
