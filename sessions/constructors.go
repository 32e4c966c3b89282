package sessions

import (
	"fmt"
	"log"
	"os"

	"github.com/glowlabs-ai/glowchat/auth"
	"github.com/glowlabs-ai/glowchat/stores"
)

// NewChatSession creates a chat session controller for the given user id
// (empty for a signed-out, memory-only session).
func NewChatSession(userID string, generator Generator, store stores.ConversationStore) *ChatSession {
	label := userID
	if label == "" {
		label = "anon"
	}
	logger := log.New(os.Stdout, fmt.Sprintf("[CHAT %s] ", label), log.LstdFlags)

	return &ChatSession{
		Generator: generator,
		Store:     store,
		Logger:    logger,
		UserID:    userID,
		typing:    NewTypingIndicator(),
		scroll:    NewScrollTracker(),
	}
}

// NewSessionList creates a conversation list for the given user id.
func NewSessionList(userID string, store stores.ConversationStore) *SessionList {
	label := userID
	if label == "" {
		label = "anon"
	}
	logger := log.New(os.Stdout, fmt.Sprintf("[LIST %s] ", label), log.LstdFlags)

	return &SessionList{
		Store:  store,
		Logger: logger,
		UserID: userID,
	}
}

// NewShell composes a session list and chat session for the provider's
// current identity and wires selection and end-of-conversation signals
// between them.
func NewShell(provider auth.Provider, generator Generator, store stores.ConversationStore) *Shell {
	userID := ""
	if provider != nil {
		if user := provider.CurrentUser(); user != nil {
			userID = user.ID
		}
	}

	shell := &Shell{
		Auth:    provider,
		Session: NewChatSession(userID, generator, store),
		List:    NewSessionList(userID, store),
		Logger:  log.New(os.Stdout, "[SHELL] ", log.LstdFlags),
	}

	shell.List.OnSelect(shell.SelectConversation)
	shell.Session.OnEnd(shell.clearSelection)

	return shell
}
