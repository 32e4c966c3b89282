package stores

import "fmt"

// NormalizeMessages filters a persisted message sequence down to entries the
// chat surface can render: a recognized role and non-empty content. Documents
// written by older schema versions (or hand-edited rows) can carry entries
// that no longer parse into a valid turn; those are dropped rather than shown
// as blank bubbles.
func NormalizeMessages(msgs []ChatMessage) []ChatMessage {
	result := make([]ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			continue
		}
		if msg.Content == "" {
			continue
		}
		result = append(result, msg)
	}
	return result
}

// DetectMalformedMessages reports problems in a message sequence without
// modifying it. Intended for operator logs when a loaded document looks off.
func DetectMalformedMessages(msgs []ChatMessage) []string {
	var issues []string

	for i, msg := range msgs {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			issues = append(issues, fmt.Sprintf("message %d has unknown role %q", i, msg.Role))
		}
		if msg.Content == "" {
			issues = append(issues, fmt.Sprintf("message %d has empty content", i))
		}
	}

	// A user message with no assistant reply after it means a turn was cut
	// short (the write for that turn failed mid-sequence, or the process died
	// between append and reply).
	if len(msgs) > 0 && msgs[len(msgs)-1].Role == RoleUser {
		issues = append(issues, "sequence ends with an unanswered user message")
	}

	return issues
}
