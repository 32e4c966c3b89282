package sessions

import "testing"

func TestScrollTracker_ShowsJumpBeyondThreshold(t *testing.T) {
	tracker := NewScrollTracker()

	tracker.Observe(250)
	if !tracker.JumpVisible() {
		t.Error("Expected jump control visible far from the bottom")
	}
}

func TestScrollTracker_HidesJumpNearBottom(t *testing.T) {
	tracker := NewScrollTracker()

	tracker.Observe(250)
	tracker.Observe(10)
	if tracker.JumpVisible() {
		t.Error("Expected jump control hidden near the bottom")
	}
}

func TestScrollTracker_ThresholdIsExclusive(t *testing.T) {
	tracker := NewScrollTracker()

	tracker.Observe(scrollThreshold)
	if tracker.JumpVisible() {
		t.Error("Expected exactly-at-threshold to count as near the bottom")
	}

	tracker.Observe(scrollThreshold + 1)
	if !tracker.JumpVisible() {
		t.Error("Expected beyond-threshold to show the jump control")
	}
}

func TestSessionExposesScrollState(t *testing.T) {
	session, _, _ := newTestSession("")

	session.ObserveScroll(500)
	if !session.ShowJumpToLatest() {
		t.Error("Expected jump control visible")
	}

	session.ObserveScroll(0)
	if session.ShowJumpToLatest() {
		t.Error("Expected jump control hidden")
	}
}
