package stores

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresStore implements ConversationStore for PostgreSQL databases
type PostgresStore struct {
	db       *gorm.DB
	dsn      string
	notifier *notifier
	logger   *log.Logger
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(config *StoreConfig) (*PostgresStore, error) {
	if config.Type != "postgres" {
		return nil, fmt.Errorf("invalid store type for PostgreSQL store: %s", config.Type)
	}

	store := &PostgresStore{
		dsn:    config.Connection,
		logger: log.New(os.Stdout, "[STORE postgres] ", log.LstdFlags),
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	return store, nil
}

// NewPostgresStoreSimple creates a new PostgreSQL store with just a DSN
func NewPostgresStoreSimple(dsn string) (*PostgresStore, error) {
	config := NewStoreConfig("postgres", dsn)
	return NewPostgresStore(config)
}

// Connect establishes a connection to the PostgreSQL database
func (s *PostgresStore) Connect() error {
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	s.db = db

	// Auto-migrate the schema
	if err := s.db.AutoMigrate(&Conversation{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	s.notifier = newNotifier(s.ListConversationsForUser, s.logger)

	return nil
}

// Close closes the database connection and cancels live subscriptions
func (s *PostgresStore) Close() error {
	if s.notifier != nil {
		s.notifier.closeAll()
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (s *PostgresStore) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// CreateConversation creates a new conversation document and returns its
// store-assigned identifier
func (s *PostgresStore) CreateConversation(ownerID, title string, messages []ChatMessage) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database connection is nil")
	}
	if ownerID == "" {
		return "", fmt.Errorf("owner id is required")
	}

	conv := Conversation{
		ConversationID: uuid.New().String(),
		OwnerID:        ownerID,
		Title:          title,
		Messages:       messages,
	}

	if err := s.db.Create(&conv).Error; err != nil {
		return "", fmt.Errorf("failed to create conversation record: %w", err)
	}

	s.notifier.notify(ownerID)
	return conv.ConversationID, nil
}

// GetConversation fetches a conversation document by id
func (s *PostgresStore) GetConversation(conversationID string) (*Conversation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var conv Conversation
	if err := s.db.Where("conversation_id = ?", conversationID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}

	return &conv, nil
}

// UpdateConversation overwrites the document's full message sequence and
// refreshes its update timestamp. Last write wins.
func (s *PostgresStore) UpdateConversation(conversationID string, messages []ChatMessage) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var conv Conversation
	if err := s.db.Where("conversation_id = ?", conversationID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return fmt.Errorf("failed to fetch conversation for update: %w", err)
	}

	conv.Messages = messages
	if err := s.db.Save(&conv).Error; err != nil {
		return fmt.Errorf("failed to update conversation record: %w", err)
	}

	s.notifier.notify(conv.OwnerID)
	return nil
}

// ListConversationsForUser returns summaries of a user's conversations,
// most recently updated first
func (s *PostgresStore) ListConversationsForUser(ownerID string) ([]ConversationInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var convs []Conversation
	if err := s.db.Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	result := make([]ConversationInfo, len(convs))
	for i, c := range convs {
		result[i] = ConversationInfo{
			ConversationID: c.ConversationID,
			OwnerID:        c.OwnerID,
			Title:          c.Title,
			MessageCount:   len(c.Messages),
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		}
	}

	return result, nil
}

// Subscribe opens a live query over the user's conversation list
func (s *PostgresStore) Subscribe(ownerID string) (*Subscription, error) {
	if s.notifier == nil {
		return nil, fmt.Errorf("store is not connected")
	}
	return s.notifier.subscribe(ownerID)
}

// SweepSubscribers drops canceled subscriptions and reports how many were
// removed. Called from the maintenance scheduler.
func (s *PostgresStore) SweepSubscribers() int {
	if s.notifier == nil {
		return 0
	}
	return s.notifier.sweep()
}
