package narrative

import (
	"errors"
	"strings"

	"github.com/Yates-Labs/storyjourney/internal/story"
)

// MarkerFormatVersion identifies the option marker contract shared by
// SystemDirective and ExtractOptions. Changing one requires changing the other.
const MarkerFormatVersion = 1

// SystemDirective governs narrative style and output format. It is sent with
// every text request and never stored as a turn.
const SystemDirective = `Create an infocom style text adventure game I can play using this prompt box. Provide 3 options for me. Use the format:
**Option 1**
**Option 2**
**Option 3**`

var (
	ErrEmptyInput = errors.New("user input is required")
)

// AssembleMessages builds the request for one turn: the system directive,
// then the stored history in order, then the player's input.
func AssembleMessages(history []story.Message, userInput string) ([]story.Message, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, ErrEmptyInput
	}

	messages := make([]story.Message, 0, len(history)+2)
	messages = append(messages, story.Message{Role: story.RoleSystem, Content: SystemDirective})
	messages = append(messages, history...)
	messages = append(messages, story.Message{Role: story.RoleUser, Content: userInput})
	return messages, nil
}
