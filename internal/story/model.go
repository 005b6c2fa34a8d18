// Package story holds the conversation log of an interactive story session.
// The Store is the single source of truth for the turns shown to the player
// and for the history replayed to the text-generation service.
package story

import "strings"

// Role identifies who produced a turn. Values match the chat API wire roles.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant" // the narrator
	RoleUser      Role = "user"
)

// OpeningQuestion is the narrator turn every session starts with.
const OpeningQuestion = "What is your story about?"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleAssistant, RoleUser:
		return true
	}
	return false
}

// Turn is one stored narrative exchange.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Image is the illustration URL. Empty when the turn has no illustration.
	Image string `json:"image,omitempty"`
}

// HasImage reports whether the turn carries an illustration.
func (t Turn) HasImage() bool {
	return strings.TrimSpace(t.Image) != ""
}

// Message is the role/content projection of a turn sent to the text-generation service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered sequence of turns in a session.
type Conversation []Turn

// Last returns the most recent turn, or false for an empty conversation.
func (c Conversation) Last() (Turn, bool) {
	if len(c) == 0 {
		return Turn{}, false
	}
	return c[len(c)-1], true
}
