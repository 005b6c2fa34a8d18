package story

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrInvalidTurn = errors.New("invalid turn")
)

// Store is the append-only turn log for one session.
// It is safe for concurrent use; readers always receive copies.
type Store struct {
	mu    sync.RWMutex
	turns Conversation
}

// NewStore creates a store seeded with the narrator's opening question.
func NewStore() *Store {
	return &Store{
		turns: Conversation{{Role: RoleAssistant, Content: OpeningQuestion}},
	}
}

// Append adds turn to the end of the conversation and returns the updated conversation.
// Earlier turns are never modified.
func (s *Store) Append(turn Turn) (Conversation, error) {
	if err := validateTurn(turn); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	return s.snapshotLocked(), nil
}

// ToHistory projects the conversation for the text-generation service, dropping images.
func (s *Store) ToHistory() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]Message, len(s.turns))
	for i, t := range s.turns {
		history[i] = Message{Role: t.Role, Content: t.Content}
	}
	return history
}

// Conversation returns a copy of the stored turns.
func (s *Store) Conversation() Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of stored turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns the most recent turn.
func (s *Store) Last() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turns.Last()
}

func (s *Store) snapshotLocked() Conversation {
	out := make(Conversation, len(s.turns))
	copy(out, s.turns)
	return out
}

func validateTurn(turn Turn) error {
	if turn.Role == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidTurn)
	}
	if !turn.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, turn.Role)
	}
	if strings.TrimSpace(turn.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidTurn)
	}
	return nil
}
