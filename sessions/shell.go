package sessions

import (
	"context"
	"log"
	"sync"

	"github.com/glowlabs-ai/glowchat/auth"
)

// Shell composes the session list and the chat session for one signed-in
// identity (or none). It holds the selected conversation id as the single
// source of truth: list selections flow down into the session, and the
// session's end-of-conversation signal clears the selection so the next turn
// starts fresh.
type Shell struct {
	Auth    auth.Provider
	Session *ChatSession
	List    *SessionList
	Logger  *log.Logger

	mu         sync.Mutex
	selectedID string
	signingIn  bool
}

// Start brings the shell up: the list begins mirroring the store and the
// session opens fresh with a greeting.
func (sh *Shell) Start(ctx context.Context) error {
	if err := sh.List.Start(); err != nil {
		return err
	}
	sh.Session.Initialize("")
	sh.Session.EmitGreeting(ctx)
	return nil
}

// Stop tears the shell down.
func (sh *Shell) Stop() {
	sh.List.Stop()
}

// SelectConversation makes the given conversation active. Selecting the
// current one changes nothing; an empty id returns to a fresh session.
func (sh *Shell) SelectConversation(conversationID string) {
	sh.mu.Lock()
	if conversationID == sh.selectedID {
		sh.mu.Unlock()
		return
	}
	sh.selectedID = conversationID
	sh.mu.Unlock()

	sh.Session.Initialize(conversationID)
}

// SelectedID returns the active conversation id, or empty when none.
func (sh *Shell) SelectedID() string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.selectedID
}

// CurrentUser returns the signed-in identity, or nil.
func (sh *Shell) CurrentUser() *auth.User {
	if sh.Auth == nil {
		return nil
	}
	return sh.Auth.CurrentUser()
}

// SignIn runs the provider's sign-in flow. Concurrent attempts are dropped
// and failures are logged, never surfaced.
func (sh *Shell) SignIn(ctx context.Context) {
	sh.mu.Lock()
	if sh.signingIn || sh.Auth == nil {
		sh.mu.Unlock()
		return
	}
	sh.signingIn = true
	sh.mu.Unlock()

	defer func() {
		sh.mu.Lock()
		sh.signingIn = false
		sh.mu.Unlock()
	}()

	if err := sh.Auth.SignIn(ctx); err != nil {
		sh.Logger.Printf("Error signing in: %v", err)
	}
}

// SignOut runs the provider's sign-out flow. Failures are logged only.
func (sh *Shell) SignOut(ctx context.Context) {
	if sh.Auth == nil {
		return
	}
	if err := sh.Auth.SignOut(ctx); err != nil {
		sh.Logger.Printf("Error signing out: %v", err)
	}
}

// clearSelection is wired to the session's end-of-conversation signal. The
// session has already reset itself; a fresh greeting opens the next one.
func (sh *Shell) clearSelection() {
	sh.mu.Lock()
	sh.selectedID = ""
	sh.mu.Unlock()

	go sh.Session.EmitGreeting(context.Background())
}
