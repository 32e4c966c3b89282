package glowchat

import (
	"github.com/glowlabs-ai/glowchat/auth"
	"github.com/glowlabs-ai/glowchat/sessions"
	"github.com/glowlabs-ai/glowchat/stores"
)

// Re-export session types for convenience
type ChatSession = sessions.ChatSession
type SessionList = sessions.SessionList
type Shell = sessions.Shell
type ChatAPI = sessions.ChatAPI
type Generator = sessions.Generator
type SessionError = sessions.SessionError
type WebSocketWriter = sessions.WebSocketWriter

// Re-export constructor functions
func NewChatSession(userID string, generator Generator, store stores.ConversationStore) *ChatSession {
	return sessions.NewChatSession(userID, generator, store)
}

func NewSessionList(userID string, store stores.ConversationStore) *SessionList {
	return sessions.NewSessionList(userID, store)
}

func NewShell(provider auth.Provider, generator Generator, store stores.ConversationStore) *Shell {
	return sessions.NewShell(provider, generator, store)
}

func NewChatAPI(generator Generator, store stores.ConversationStore, provider auth.Provider) *ChatAPI {
	return sessions.NewChatAPI(generator, store, provider)
}
