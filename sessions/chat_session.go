package sessions

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/glowlabs-ai/glowchat/stores"
)

// ChatSession is the single authority for the active conversation: its
// message sequence, its persistence identity, and the send/skip/end
// lifecycle. The model client and the document store are injected so tests
// can substitute fakes.
//
// Concurrency model: one mutual-exclusion flag. While a model call is
// outstanding, further sends are dropped, not queued: turn N's full
// side-effect sequence (append, call, persist) settles before turn N+1 can
// begin.
type ChatSession struct {
	Generator Generator
	Store     stores.ConversationStore
	Logger    *log.Logger

	// UserID is the signed-in owner, or empty when nobody is signed in.
	// Without an owner the session runs memory-only and never touches the
	// store.
	UserID string

	mu             sync.Mutex
	conversationID string
	epoch          uint64
	initialized    bool
	greeted        bool
	awaiting       bool
	draft          string
	messages       []stores.ChatMessage

	typing *TypingIndicator
	scroll *ScrollTracker

	onEnd            func()
	onScrollToLatest func()
}

// OnEnd registers the shell's end-of-conversation handler.
func (s *ChatSession) OnEnd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// OnScrollToLatest registers the handler fired after every append, so the
// view can follow the newest message.
func (s *ChatSession) OnScrollToLatest(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onScrollToLatest = fn
}

// Initialize points the session at a conversation. An empty id means "start
// fresh". Re-selecting the current conversation is a no-op. For a present id
// the persisted messages replace the in-memory sequence; a fetch failure is
// logged and leaves the sequence empty rather than surfacing an error.
func (s *ChatSession) Initialize(selectedID string) {
	s.mu.Lock()
	if s.initialized && selectedID == s.conversationID {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.conversationID = selectedID
	s.epoch++
	s.messages = nil
	s.draft = ""
	// An outstanding turn belongs to the previous epoch now; both its reply
	// and its flag clear will be dropped, so release the gate here.
	s.awaiting = false
	// Loaded conversations never re-greet; only a fresh session does.
	s.greeted = selectedID != ""
	epoch := s.epoch
	s.mu.Unlock()
	s.typing.Clear()

	if selectedID == "" {
		return
	}

	conv, err := s.Store.GetConversation(selectedID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// Selection moved on while the fetch was in flight.
		return
	}
	if err != nil {
		s.Logger.Printf("Error fetching conversation %s: %v", selectedID, err)
		return
	}
	if issues := stores.DetectMalformedMessages(conv.Messages); len(issues) > 0 {
		s.Logger.Printf("Conversation %s loaded with issues: %s", selectedID, strings.Join(issues, "; "))
	}
	s.messages = append([]stores.ChatMessage(nil), conv.Messages...)
}

// EmitGreeting asks the model to open a fresh session with a short
// introduction. It runs at most once per fresh session and never on a loaded
// conversation. A failed call falls back to fixed greeting text so the chat
// does not start empty and broken.
func (s *ChatSession) EmitGreeting(ctx context.Context) {
	s.mu.Lock()
	if s.greeted || s.conversationID != "" || len(s.messages) > 0 || s.awaiting {
		s.mu.Unlock()
		return
	}
	s.greeted = true
	s.awaiting = true
	epoch := s.epoch
	s.mu.Unlock()
	defer s.clearAwaiting(epoch)

	text, err := s.Generator.Generate(ctx, GreetingPrompt)
	if err != nil {
		s.Logger.Printf("Greeting request failed: %v", err)
		text = greetingFallback
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages, stores.ChatMessage{Role: stores.RoleAssistant, Content: text})
	s.mu.Unlock()
	s.requestScrollToLatest()
}

// Send runs one full turn: ensure the conversation document exists, append
// the user message, call the model with the raw input text, append the reply
// (or the fixed apology on failure), and persist the whole sequence. Empty
// input and sends issued while a call is outstanding are dropped silently.
func (s *ChatSession) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return
	}
	s.awaiting = true

	// First send from an unsaved session creates the document, owner and
	// title included. Creation failure (or no signed-in user) degrades the
	// whole turn to memory-only.
	if s.conversationID == "" && s.UserID != "" {
		id, err := s.Store.CreateConversation(s.UserID, deriveTitle(text), nil)
		if err != nil {
			s.Logger.Printf("Error creating conversation: %v", err)
		} else {
			s.conversationID = id
		}
	}
	issuedID := s.conversationID
	epoch := s.epoch

	s.messages = append(s.messages, stores.ChatMessage{Role: stores.RoleUser, Content: text})
	s.draft = ""
	s.mu.Unlock()
	s.typing.Clear()
	s.requestScrollToLatest()
	defer s.clearAwaiting(epoch)

	reply, err := s.Generator.Generate(ctx, text)
	if err != nil {
		s.Logger.Printf("Model request failed: %v", err)
		reply = replyFallback
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// The active conversation changed while the call was outstanding;
		// applying the late reply would leak it into the wrong transcript.
		s.mu.Unlock()
		s.Logger.Printf("Dropping late model reply for conversation %q", issuedID)
		return
	}
	s.messages = append(s.messages, stores.ChatMessage{Role: stores.RoleAssistant, Content: reply})
	snapshot := append([]stores.ChatMessage(nil), s.messages...)
	s.mu.Unlock()
	s.requestScrollToLatest()

	if issuedID != "" {
		if err := s.Store.UpdateConversation(issuedID, snapshot); err != nil {
			s.Logger.Printf("Error persisting conversation %s: %v", issuedID, err)
		}
	}
}

// Skip sends the fixed skip-question phrase through the ordinary send path.
func (s *ChatSession) Skip(ctx context.Context) {
	s.Send(ctx, SkipQuestionPrompt)
}

// HelpMeAnswer sends the fixed help phrase through the ordinary send path.
func (s *ChatSession) HelpMeAnswer(ctx context.Context) {
	s.Send(ctx, HelpMeAnswerPrompt)
}

// EndConversation clears the in-memory session and signals the shell to
// deselect, so the next Initialize starts fresh. The persisted document, if
// any, is left untouched.
func (s *ChatSession) EndConversation() {
	s.mu.Lock()
	s.conversationID = ""
	s.epoch++
	s.messages = nil
	s.draft = ""
	s.greeted = false
	s.awaiting = false
	onEnd := s.onEnd
	s.mu.Unlock()
	s.typing.Clear()

	if onEnd != nil {
		onEnd()
	}
}

// SetDraft updates the unsent input text and drives the typing indicator:
// any change to non-empty text counts as a keystroke, clearing the draft
// forces the indicator idle immediately.
func (s *ChatSession) SetDraft(text string) {
	s.mu.Lock()
	changed := text != s.draft
	s.draft = text
	s.mu.Unlock()

	if text == "" {
		s.typing.Clear()
		return
	}
	if changed {
		s.typing.Keystroke()
	}
}

// ObserveScroll records the message list's distance from the bottom.
func (s *ChatSession) ObserveScroll(distanceFromBottom float64) {
	s.scroll.Observe(distanceFromBottom)
}

// Messages returns a copy of the in-memory message sequence.
func (s *ChatSession) Messages() []stores.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stores.ChatMessage(nil), s.messages...)
}

// ConversationID returns the active persistence identity, or empty for an
// unsaved session.
func (s *ChatSession) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Draft returns the current unsent input text.
func (s *ChatSession) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// IsAwaitingResponse reports whether a model call is outstanding.
func (s *ChatSession) IsAwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// IsUserTyping reports the typing indicator state.
func (s *ChatSession) IsUserTyping() bool {
	return s.typing.Active()
}

// ShowJumpToLatest reports whether the jump-to-latest control should show.
func (s *ChatSession) ShowJumpToLatest() bool {
	return s.scroll.JumpVisible()
}

// clearAwaiting releases the turn gate, but only for the epoch that took it.
// A turn that settles after the session switched or ended must not drop the
// flag a newer turn is holding.
func (s *ChatSession) clearAwaiting(epoch uint64) {
	s.mu.Lock()
	if s.epoch == epoch {
		s.awaiting = false
	}
	s.mu.Unlock()
}

func (s *ChatSession) requestScrollToLatest() {
	s.mu.Lock()
	fn := s.onScrollToLatest
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// deriveTitle truncates the first user message into a conversation title.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit])
}
