package sessions

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/glowlabs-ai/glowchat/auth"
	"github.com/glowlabs-ai/glowchat/stores"
)

// ChatAPI exposes shells over HTTP, one per identity. Requests resolve their
// identity from the X-User-ID header when present, falling back to the
// configured auth provider; anonymous requests get a memory-only shell.
type ChatAPI struct {
	Generator Generator
	Store     stores.ConversationStore
	Auth      auth.Provider
	Logger    *log.Logger

	mu     sync.Mutex
	shells map[string]*Shell
}

// NewChatAPI creates the HTTP controller.
func NewChatAPI(generator Generator, store stores.ConversationStore, provider auth.Provider) *ChatAPI {
	return &ChatAPI{
		Generator: generator,
		Store:     store,
		Auth:      provider,
		Logger:    log.New(os.Stdout, "[API] ", log.LstdFlags),
		shells:    make(map[string]*Shell),
	}
}

// Register mounts the chat routes on a router group.
func (a *ChatAPI) Register(r *gin.RouterGroup) {
	r.POST("/chat/send", a.handleSend)
	r.POST("/chat/skip", a.handleSkip)
	r.POST("/chat/help", a.handleHelp)
	r.POST("/chat/end", a.handleEnd)
	r.POST("/chat/select", a.handleSelect)
	r.POST("/chat/draft", a.handleDraft)
	r.POST("/chat/scroll", a.handleScroll)
	r.GET("/chat/state", a.handleState)
	r.GET("/conversations", a.handleList)
	r.GET("/conversations/watch", a.handleWatch)
	r.POST("/auth/signin", a.handleSignIn)
	r.POST("/auth/signout", a.handleSignOut)
	r.GET("/auth/me", a.handleMe)
}

func (a *ChatAPI) userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	if a.Auth != nil {
		if user := a.Auth.CurrentUser(); user != nil {
			return user.ID
		}
	}
	return ""
}

func (a *ChatAPI) shellFor(c *gin.Context) *Shell {
	userID := a.userID(c)

	a.mu.Lock()
	if sh, ok := a.shells[userID]; ok {
		a.mu.Unlock()
		return sh
	}

	sh := &Shell{
		Auth:    a.Auth,
		Session: NewChatSession(userID, a.Generator, a.Store),
		List:    NewSessionList(userID, a.Store),
		Logger:  log.New(os.Stdout, "[SHELL] ", log.LstdFlags),
	}
	sh.List.OnSelect(sh.SelectConversation)
	sh.Session.OnEnd(sh.clearSelection)
	a.shells[userID] = sh
	a.mu.Unlock()

	if err := sh.List.Start(); err != nil {
		a.Logger.Printf("Error starting session list for %q: %v", userID, err)
	}
	sh.Session.Initialize("")
	go sh.Session.EmitGreeting(context.Background())

	return sh
}

type textRequest struct {
	Text string `json:"text"`
}

type selectRequest struct {
	ConversationID string `json:"conversation_id"`
}

type scrollRequest struct {
	DistanceFromBottom float64 `json:"distance_from_bottom"`
}

// sessionState is the controller's UI-facing state snapshot.
type sessionState struct {
	ConversationID   string               `json:"conversation_id"`
	Messages         []stores.ChatMessage `json:"messages"`
	Draft            string               `json:"draft"`
	AwaitingResponse bool                 `json:"awaiting_response"`
	UserTyping       bool                 `json:"user_typing"`
	JumpToLatest     bool                 `json:"jump_to_latest_visible"`
}

func (a *ChatAPI) stateOf(sh *Shell) sessionState {
	return sessionState{
		ConversationID:   sh.Session.ConversationID(),
		Messages:         sh.Session.Messages(),
		Draft:            sh.Session.Draft(),
		AwaitingResponse: sh.Session.IsAwaitingResponse(),
		UserTyping:       sh.Session.IsUserTyping(),
		JumpToLatest:     sh.Session.ShowJumpToLatest(),
	}
}

func (a *ChatAPI) handleSend(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := a.shellFor(c)
	// Model calls run to completion once issued; the request context would
	// cancel them on client disconnect.
	sh.Session.Send(context.Background(), req.Text)
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleSkip(c *gin.Context) {
	sh := a.shellFor(c)
	sh.Session.Skip(context.Background())
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleHelp(c *gin.Context) {
	sh := a.shellFor(c)
	sh.Session.HelpMeAnswer(context.Background())
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleEnd(c *gin.Context) {
	sh := a.shellFor(c)
	sh.Session.EndConversation()
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := a.shellFor(c)
	sh.SelectConversation(req.ConversationID)
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleDraft(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := a.shellFor(c)
	sh.Session.SetDraft(req.Text)
	c.JSON(http.StatusOK, gin.H{"user_typing": sh.Session.IsUserTyping()})
}

func (a *ChatAPI) handleScroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := a.shellFor(c)
	sh.Session.ObserveScroll(req.DistanceFromBottom)
	c.JSON(http.StatusOK, gin.H{"jump_to_latest_visible": sh.Session.ShowJumpToLatest()})
}

func (a *ChatAPI) handleState(c *gin.Context) {
	sh := a.shellFor(c)
	c.JSON(http.StatusOK, a.stateOf(sh))
}

func (a *ChatAPI) handleList(c *gin.Context) {
	sh := a.shellFor(c)
	c.JSON(http.StatusOK, gin.H{"conversations": sh.List.Conversations()})
}

func (a *ChatAPI) handleSignIn(c *gin.Context) {
	sh := a.shellFor(c)
	sh.SignIn(c.Request.Context())
	a.handleMe(c)
}

func (a *ChatAPI) handleSignOut(c *gin.Context) {
	sh := a.shellFor(c)
	sh.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user": nil})
}

func (a *ChatAPI) handleMe(c *gin.Context) {
	if a.Auth == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": a.Auth.CurrentUser()})
}
