package auth

import (
	"context"
	"fmt"
	"sync"
)

// User is a signed-in identity as supplied by the authentication provider.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// Provider supplies the current identity and the sign-in/sign-out
// operations. The chat core only ever needs "current user id, or none";
// everything else here exists for the shell's identity controls.
type Provider interface {
	CurrentUser() *User // nil when signed out
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// StaticProvider is a Provider backed by a fixed identity. Used for local
// development and tests; a production deployment supplies its own Provider.
type StaticProvider struct {
	mu       sync.Mutex
	user     *User
	signedIn bool
}

// NewStaticProvider creates a provider for the given identity, initially
// signed out. A nil user means sign-in always fails.
func NewStaticProvider(user *User) *StaticProvider {
	return &StaticProvider{user: user}
}

// NewSignedInProvider creates a provider already signed in as the given user.
func NewSignedInProvider(user *User) *StaticProvider {
	return &StaticProvider{user: user, signedIn: user != nil}
}

// CurrentUser returns the identity, or nil when signed out.
func (p *StaticProvider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.signedIn {
		return nil
	}
	return p.user
}

// SignIn marks the configured identity as signed in.
func (p *StaticProvider) SignIn(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return fmt.Errorf("no identity configured")
	}
	p.signedIn = true
	return nil
}

// SignOut clears the signed-in state.
func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = false
	return nil
}
