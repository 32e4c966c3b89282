package stores

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements ConversationStore for SQLite databases
type SQLiteStore struct {
	db       *gorm.DB
	path     string
	notifier *notifier
	logger   *log.Logger
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(config *StoreConfig) (*SQLiteStore, error) {
	if config.Type != "sqlite" {
		return nil, fmt.Errorf("invalid store type for SQLite store: %s", config.Type)
	}

	store := &SQLiteStore{
		path:   config.Connection,
		logger: log.New(os.Stdout, "[STORE sqlite] ", log.LstdFlags),
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	return store, nil
}

// NewSQLiteStoreSimple creates a new SQLite store with just a file path
func NewSQLiteStoreSimple(dbPath string) (*SQLiteStore, error) {
	config := NewStoreConfig("sqlite", dbPath)
	return NewSQLiteStore(config)
}

// Connect establishes a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to SQLite database: %w", err)
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
func (s *SQLiteStore) Close() error {
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
func (s *SQLiteStore) Ping() error {
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
// store-assigned identifier. Timestamps are assigned by the database.
func (s *SQLiteStore) CreateConversation(ownerID, title string, messages []ChatMessage) (string, error) {
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
func (s *SQLiteStore) GetConversation(conversationID string) (*Conversation, error) {
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
func (s *SQLiteStore) UpdateConversation(conversationID string, messages []ChatMessage) error {
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
func (s *SQLiteStore) ListConversationsForUser(ownerID string) ([]ConversationInfo, error) {
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

// Subscribe opens a live query over the user's conversation list. The first
// snapshot is delivered immediately; every subsequent write by this store
// process pushes a fresh one.
func (s *SQLiteStore) Subscribe(ownerID string) (*Subscription, error) {
	if s.notifier == nil {
		return nil, fmt.Errorf("store is not connected")
	}
	return s.notifier.subscribe(ownerID)
}

// SweepSubscribers drops canceled subscriptions and reports how many were
// removed. Called from the maintenance scheduler.
func (s *SQLiteStore) SweepSubscribers() int {
	if s.notifier == nil {
		return 0
	}
	return s.notifier.sweep()
}
