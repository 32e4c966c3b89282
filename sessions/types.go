package sessions

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Generator is the generative-model client. A call is a single stateless
// request/response pair; no conversation context is carried on the remote
// side between calls.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fixed prompts and replies used by the controller.
const (
	// GreetingPrompt opens every fresh session.
	GreetingPrompt = "Introduce yourself briefly."

	// SkipQuestionPrompt and HelpMeAnswerPrompt back the Skip / Help actions.
	// Both travel through Send like ordinary user text.
	SkipQuestionPrompt = "skip question"
	HelpMeAnswerPrompt = "help me answer"

	greetingFallback = "Hi there! I'm your assistant. Ask me anything to get started."
	replyFallback    = "Sorry, there was an error processing your request."
)

const (
	// titleLimit caps the conversation title derived from the first message.
	titleLimit = 80

	// scrollThreshold is the distance from the bottom of the message list
	// beyond which the jump-to-latest control shows.
	scrollThreshold = 100.0

	// typingDecay is how long after the last keystroke the typing indicator
	// stays lit.
	typingDecay = time.Second
)

// SessionError represents errors that can occur during session operations
type SessionError struct {
	Message string
	Fatal   bool
}

func (e *SessionError) Error() string {
	return e.Message
}

// WebSocketWriter handles all WebSocket communication
type WebSocketWriter struct {
	Conn   *websocket.Conn
	Logger *log.Logger
	mu     sync.Mutex
}

func (w *WebSocketWriter) WriteJSON(payload interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteJSON(payload)
}

func (w *WebSocketWriter) WriteError(message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteJSON(map[string]string{"error": message})
}

func (w *WebSocketWriter) WriteDone() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteJSON(map[string]string{"type": "done"})
}
