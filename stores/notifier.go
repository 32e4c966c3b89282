package stores

import (
	"log"
	"sync"
)

// Subscription delivers conversation-list snapshots for one owner. Each
// pushed snapshot is the full current list; an undelivered stale snapshot is
// replaced rather than queued, so a slow consumer always sees the latest
// state next.
type Subscription struct {
	ownerID string

	mu       sync.Mutex
	ch       chan []ConversationInfo
	canceled bool
}

// NewSubscription creates a subscription for the given owner. Stores hand
// these out from Subscribe; fakes can push snapshots into one directly.
func NewSubscription(ownerID string) *Subscription {
	return &Subscription{
		ownerID: ownerID,
		ch:      make(chan []ConversationInfo, 1),
	}
}

// OwnerID returns the owner this subscription is filtered to.
func (s *Subscription) OwnerID() string {
	return s.ownerID
}

// Updates returns the snapshot channel. It is closed when the subscription
// is canceled.
func (s *Subscription) Updates() <-chan []ConversationInfo {
	return s.ch
}

// Push delivers a snapshot, replacing any undelivered one. Returns false if
// the subscription has been canceled.
func (s *Subscription) Push(snapshot []ConversationInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return false
	}

	select {
	case s.ch <- snapshot:
		return true
	default:
		// Channel full (stale snapshot). Drop it and try again.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- snapshot:
			return true
		default:
			return false
		}
	}
}

// Cancel stops delivery and closes the updates channel. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.canceled = true
	close(s.ch)
}

func (s *Subscription) isCanceled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canceled
}

// notifier fans conversation-list snapshots out to store subscribers. Stores
// call notify after every write; the notifier re-queries the owner's list and
// pushes the result to every matching subscription.
type notifier struct {
	list   func(ownerID string) ([]ConversationInfo, error)
	logger *log.Logger

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newNotifier(list func(ownerID string) ([]ConversationInfo, error), logger *log.Logger) *notifier {
	return &notifier{
		list:   list,
		logger: logger,
		subs:   make(map[*Subscription]struct{}),
	}
}

// subscribe registers a subscription and primes it with the current list.
func (n *notifier) subscribe(ownerID string) (*Subscription, error) {
	snapshot, err := n.list(ownerID)
	if err != nil {
		return nil, err
	}

	sub := NewSubscription(ownerID)
	sub.Push(snapshot)

	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()

	return sub, nil
}

// notify re-queries the owner's conversation list and pushes it to every
// live subscription for that owner.
func (n *notifier) notify(ownerID string) {
	n.mu.Lock()
	targets := make([]*Subscription, 0, len(n.subs))
	for sub := range n.subs {
		if sub.OwnerID() == ownerID {
			targets = append(targets, sub)
		}
	}
	n.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	snapshot, err := n.list(ownerID)
	if err != nil {
		n.logger.Printf("Error refreshing conversation list for %s: %v", ownerID, err)
		return
	}

	for _, sub := range targets {
		if !sub.Push(snapshot) {
			n.remove(sub)
		}
	}
}

func (n *notifier) remove(sub *Subscription) {
	n.mu.Lock()
	delete(n.subs, sub)
	n.mu.Unlock()
}

// sweep drops canceled subscriptions and reports how many were removed.
func (n *notifier) sweep() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	removed := 0
	for sub := range n.subs {
		if sub.isCanceled() {
			delete(n.subs, sub)
			removed++
		}
	}
	return removed
}

// closeAll cancels every live subscription. Used on store shutdown.
func (n *notifier) closeAll() {
	n.mu.Lock()
	subs := make([]*Subscription, 0, len(n.subs))
	for sub := range n.subs {
		subs = append(subs, sub)
	}
	n.subs = make(map[*Subscription]struct{})
	n.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
