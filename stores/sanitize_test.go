package stores

import (
	"testing"
)

func TestNormalizeMessages_EmptySequence(t *testing.T) {
	msgs := []ChatMessage{}
	result := NormalizeMessages(msgs)
	if len(result) != 0 {
		t.Errorf("Expected empty result, got %d messages", len(result))
	}
}

func TestNormalizeMessages_ValidSequence(t *testing.T) {
	msgs := []ChatMessage{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
		{Role: RoleUser, Content: "how are you?"},
		{Role: RoleAssistant, Content: "well, thanks"},
	}
	result := NormalizeMessages(msgs)
	if len(result) != 4 {
		t.Errorf("Expected 4 messages, got %d", len(result))
	}
}

func TestNormalizeMessages_DropsUnknownRoles(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "system", Content: "you are helpful"}, // old schema - should be dropped
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}
	result := NormalizeMessages(msgs)
	if len(result) != 2 {
		t.Errorf("Expected 2 messages (dropping unknown role), got %d", len(result))
	}
	if result[0].Role != RoleUser {
		t.Errorf("Expected first message to be the user turn, got %s", result[0].Role)
	}
}

func TestNormalizeMessages_DropsEmptyContent(t *testing.T) {
	msgs := []ChatMessage{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: ""}, // blank bubble - should be dropped
		{Role: RoleAssistant, Content: "hi"},
	}
	result := NormalizeMessages(msgs)
	if len(result) != 2 {
		t.Errorf("Expected 2 messages (dropping empty content), got %d", len(result))
	}
}

func TestNormalizeMessages_FullyMalformed(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "tool", Content: "output"},
		{Role: RoleUser, Content: ""},
	}
	result := NormalizeMessages(msgs)
	if len(result) != 0 {
		t.Errorf("Expected empty result for fully malformed sequence, got %d messages", len(result))
	}
}

func TestDetectMalformedMessages_Clean(t *testing.T) {
	msgs := []ChatMessage{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}
	issues := DetectMalformedMessages(msgs)
	if len(issues) != 0 {
		t.Errorf("Expected no issues for a clean sequence, got: %v", issues)
	}
}

func TestDetectMalformedMessages_UnknownRole(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "model", Content: "hi"},
	}
	issues := DetectMalformedMessages(msgs)
	if len(issues) == 0 {
		t.Error("Expected issues for an unknown role")
	}
}

func TestDetectMalformedMessages_UnansweredUserMessage(t *testing.T) {
	// Simulates a turn whose write completed before the reply was appended
	msgs := []ChatMessage{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
		{Role: RoleUser, Content: "still there?"},
	}
	issues := DetectMalformedMessages(msgs)
	if len(issues) == 0 {
		t.Error("Expected issues for an unanswered trailing user message")
	}
}
