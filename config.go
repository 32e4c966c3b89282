package glowchat

import (
	"context"
	"fmt"

	"github.com/glowlabs-ai/glowchat/auth"
	"github.com/glowlabs-ai/glowchat/models/gemini"
	"github.com/glowlabs-ai/glowchat/stores"
)

// ChatConfig holds configuration for chat shells and the HTTP controller
type ChatConfig struct {
	ModelName string
	Store     stores.ConversationStore
}

// NewChatConfig creates a new chat configuration with default values. The
// store stays unset until the configuration is consumed; NewChatAPIFromConfig
// falls back to a local SQLite file.
func NewChatConfig() *ChatConfig {
	return &ChatConfig{
		ModelName: gemini.DefaultModel,
	}
}

// WithModelName sets the model name for the configuration
func (c *ChatConfig) WithModelName(modelName string) *ChatConfig {
	c.ModelName = modelName
	return c
}

// WithStore sets the conversation store for the configuration
func (c *ChatConfig) WithStore(store stores.ConversationStore) *ChatConfig {
	c.Store = store
	return c
}

// WithSQLiteStore sets a SQLite store with the specified database path
func (c *ChatConfig) WithSQLiteStore(dbPath string) *ChatConfig {
	store, err := stores.NewSQLiteStoreSimple(dbPath)
	if err != nil {
		panic("Failed to create SQLite store: " + err.Error())
	}
	c.Store = store
	return c
}

// WithPostgresStore sets a PostgreSQL store with the specified connection parameters
func (c *ChatConfig) WithPostgresStore(host, user, password, dbname string, port int) *ChatConfig {
	store, err := stores.NewPostgresStoreDefault(host, user, password, dbname, port)
	if err != nil {
		panic("Failed to create PostgreSQL store: " + err.Error())
	}
	c.Store = store
	return c
}

// NewChatAPIFromConfig assembles the HTTP controller from a configuration: a
// Gemini generator for the configured model and the configured store. The
// generator refuses to build without GEMINI_API_KEY set.
func NewChatAPIFromConfig(ctx context.Context, config *ChatConfig, provider auth.Provider) (*ChatAPI, error) {
	store := config.Store
	if store == nil {
		defaultStore, err := stores.NewSQLiteStoreDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to create default store: %w", err)
		}
		store = defaultStore
	}

	model, err := gemini.NewGeminiModel(ctx, config.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return NewChatAPI(model, store, provider), nil
}
