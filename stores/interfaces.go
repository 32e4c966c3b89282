package stores

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Roles a chat message can carry. There is no system or tool role; a
// conversation is strictly user turns answered by assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single entry in a conversation's message sequence.
// Messages are values inside the conversation document, not independently
// persisted rows.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the persisted chat document. The message sequence is stored
// as a single JSON column and always written whole (last write wins; there is
// no conflict detection between concurrent writers).
type Conversation struct {
	ID             uint          `gorm:"primarykey" json:"-"`
	ConversationID string        `gorm:"uniqueIndex;not null" json:"conversation_id"`
	OwnerID        string        `gorm:"index;not null" json:"owner_id"`
	Title          string        `gorm:"type:text" json:"title"`
	MessagesJSON   string        `gorm:"type:json" json:"-"`
	Messages       []ChatMessage `gorm:"-" json:"messages"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BeforeSave marshals Messages to MessagesJSON
func (c *Conversation) BeforeSave(tx *gorm.DB) error {
	data, err := json.Marshal(c.Messages)
	if err != nil {
		return err
	}
	c.MessagesJSON = string(data)
	if c.Messages == nil {
		c.MessagesJSON = "[]"
	}
	return nil
}

// AfterFind unmarshals MessagesJSON to Messages, dropping malformed entries
func (c *Conversation) AfterFind(tx *gorm.DB) error {
	if c.MessagesJSON == "" {
		return nil
	}
	var msgs []ChatMessage
	if err := json.Unmarshal([]byte(c.MessagesJSON), &msgs); err != nil {
		return err
	}
	c.Messages = NormalizeMessages(msgs)
	return nil
}

// ConversationInfo holds conversation summary metadata for listing
type ConversationInfo struct {
	ConversationID string    `json:"conversation_id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ErrNotFound is returned when a conversation id has no document behind it.
var ErrNotFound = errors.New("conversation not found")

// ConversationStore interface for abstracting document-store operations
type ConversationStore interface {
	// Document operations
	CreateConversation(ownerID, title string, messages []ChatMessage) (string, error)
	GetConversation(conversationID string) (*Conversation, error)
	UpdateConversation(conversationID string, messages []ChatMessage) error

	// Listing and live queries
	ListConversationsForUser(ownerID string) ([]ConversationInfo, error) // Ordered by update recency
	Subscribe(ownerID string) (*Subscription, error)

	// Connection management
	Connect() error
	Close() error

	// Health check
	Ping() error
}

// StoreConfig holds configuration for document stores
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite", "postgres"
	Connection string            `json:"connection"` // connection string
	Options    map[string]string `json:"options"`    // additional options
}

// NewStoreConfig creates a new store configuration
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
