package stores

import (
	"fmt"
	"log"
	"os"

	"github.com/robfig/cron/v3"
)

// subscriberSweeper is implemented by stores that track live subscriptions.
type subscriberSweeper interface {
	SweepSubscribers() int
}

// Maintenance runs periodic upkeep against a store: a connection health ping
// and a sweep of canceled subscriptions that were never collected.
type Maintenance struct {
	store     ConversationStore
	scheduler *cron.Cron
	logger    *log.Logger
}

// NewMaintenance creates a maintenance runner for the given store
func NewMaintenance(store ConversationStore) *Maintenance {
	return &Maintenance{
		store:  store,
		logger: log.New(os.Stdout, "[MAINT] ", log.LstdFlags),
	}
}

// Start schedules the upkeep job. An empty schedule defaults to once a minute.
func (m *Maintenance) Start(schedule string) error {
	if m.scheduler != nil {
		return fmt.Errorf("maintenance already started")
	}
	if schedule == "" {
		schedule = "@every 1m"
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(schedule, m.run); err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	m.scheduler = scheduler
	scheduler.Start()
	m.logger.Printf("Maintenance scheduled: %s", schedule)
	return nil
}

// Stop halts the scheduler. Pending runs complete.
func (m *Maintenance) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
		m.scheduler = nil
	}
}

func (m *Maintenance) run() {
	if err := m.store.Ping(); err != nil {
		m.logger.Printf("Store ping failed: %v", err)
	}

	if sweeper, ok := m.store.(subscriberSweeper); ok {
		if removed := sweeper.SweepSubscribers(); removed > 0 {
			m.logger.Printf("Swept %d canceled subscriptions", removed)
		}
	}
}
