package sessions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/glowlabs-ai/glowchat/stores"
)

func newWatchServer(t *testing.T, store *fakeStore) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := NewChatAPI(&fakeGenerator{}, store, nil)
	api.Register(router.Group("/api/v1"))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dialWatch(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/conversations/watch"
	header := http.Header{}
	if userID != "" {
		header.Set("X-User-ID", userID)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Failed to dial watch feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

type watchFrame struct {
	Type          string                    `json:"type"`
	Error         string                    `json:"error"`
	Conversations []stores.ConversationInfo `json:"conversations"`
}

func TestWatchStreamsConversationSnapshots(t *testing.T) {
	store := newFakeStore()
	if _, err := store.CreateConversation("user-1", "existing chat", nil); err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	srv := newWatchServer(t, store)
	conn := dialWatch(t, srv, "user-1")

	var frame watchFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read primed snapshot: %v", err)
	}
	if frame.Type != "conversations" || len(frame.Conversations) != 1 {
		t.Fatalf("Expected primed snapshot with 1 conversation, got %+v", frame)
	}

	if _, err := store.CreateConversation("user-1", "new chat", nil); err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read pushed snapshot: %v", err)
	}
	if len(frame.Conversations) != 2 {
		t.Errorf("Expected the write pushed to the feed, got %+v", frame)
	}
}

func TestWatchRejectsAnonymousRequests(t *testing.T) {
	srv := newWatchServer(t, newFakeStore())

	resp, err := http.Get(srv.URL + "/api/v1/conversations/watch")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 for anonymous watch, got %d", resp.StatusCode)
	}
}

func TestWatchReportsSubscribeFailureOverSocket(t *testing.T) {
	store := newFakeStore()
	store.failSubscribe = true
	srv := newWatchServer(t, store)
	conn := dialWatch(t, srv, "user-1")

	var frame watchFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read error frame: %v", err)
	}
	if frame.Error == "" {
		t.Errorf("Expected an error frame before closing, got %+v", frame)
	}
}

func TestWatchSignalsDoneWhenStoreCloses(t *testing.T) {
	store := newFakeStore()
	srv := newWatchServer(t, store)
	conn := dialWatch(t, srv, "user-1")

	var frame watchFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read primed snapshot: %v", err)
	}

	store.Close()

	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read done frame: %v", err)
	}
	if frame.Type != "done" {
		t.Errorf("Expected a done frame after the store closed, got %+v", frame)
	}
}
