package sessions

import "sync"

// ScrollTracker mirrors the message list's scroll position. When the view is
// more than the threshold away from the bottom, the jump-to-latest control
// shows. Appending a message always requests a scroll to the latest entry
// regardless of this state; the tracker only drives the control's visibility.
type ScrollTracker struct {
	mu        sync.Mutex
	threshold float64
	away      bool
}

// NewScrollTracker creates a tracker with the standard 100-unit threshold.
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{threshold: scrollThreshold}
}

// Observe records the current distance from the bottom of the message list.
func (st *ScrollTracker) Observe(distanceFromBottom float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.away = distanceFromBottom > st.threshold
}

// JumpVisible reports whether the jump-to-latest control should show.
func (st *ScrollTracker) JumpVisible() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.away
}
