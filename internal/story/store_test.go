package story

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_SeedsOpeningQuestion(t *testing.T) {
	s := NewStore()

	require.Equal(t, 1, s.Len())
	first, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, first.Role)
	assert.Equal(t, OpeningQuestion, first.Content)
	assert.False(t, first.HasImage())
}

func TestStore_Append(t *testing.T) {
	s := NewStore()

	conv, err := s.Append(Turn{Role: RoleAssistant, Content: "You wake in a cave.", Image: "https://img/1.png"})
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "You wake in a cave.", conv[1].Content)
	assert.Equal(t, "https://img/1.png", conv[1].Image)
	assert.Equal(t, OpeningQuestion, conv[0].Content)
}

func TestStore_Append_DoesNotMutateEarlierSnapshots(t *testing.T) {
	s := NewStore()

	before := s.Conversation()
	_, err := s.Append(Turn{Role: RoleAssistant, Content: "next"})
	require.NoError(t, err)

	assert.Len(t, before, 1)

	// Mutating a returned snapshot must not leak into the store.
	snap := s.Conversation()
	snap[0].Content = "tampered"
	first := s.Conversation()[0]
	assert.Equal(t, OpeningQuestion, first.Content)
}

func TestStore_Append_InvalidTurn(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
	}{
		{name: "missing role", turn: Turn{Content: "text"}},
		{name: "unknown role", turn: Turn{Role: "narrator", Content: "text"}},
		{name: "empty content", turn: Turn{Role: RoleAssistant}},
		{name: "whitespace content", turn: Turn{Role: RoleAssistant, Content: " \n\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_, err := s.Append(tt.turn)
			if !errors.Is(err, ErrInvalidTurn) {
				t.Fatalf("expected ErrInvalidTurn, got %v", err)
			}
			if s.Len() != 1 {
				t.Errorf("store changed after invalid append: len=%d", s.Len())
			}
		})
	}
}

func TestStore_ToHistory(t *testing.T) {
	s := NewStore()
	turns := []Turn{
		{Role: RoleAssistant, Content: "A dragon appears.", Image: "https://img/dragon.png"},
		{Role: RoleUser, Content: "I run."},
		{Role: RoleAssistant, Content: "You escape."},
	}
	for _, turn := range turns {
		_, err := s.Append(turn)
		require.NoError(t, err)
	}

	history := s.ToHistory()
	conv := s.Conversation()

	require.Len(t, history, len(conv))
	for i := range conv {
		assert.Equal(t, conv[i].Role, history[i].Role, "role at %d", i)
		assert.Equal(t, conv[i].Content, history[i].Content, "content at %d", i)
	}
}

func TestStore_ConcurrentReadsDuringAppend(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Append(Turn{Role: RoleAssistant, Content: "scene"})
		}()
		go func() {
			defer wg.Done()
			_ = s.ToHistory()
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, s.Len())
}

func TestConversation_Last(t *testing.T) {
	var empty Conversation
	_, ok := empty.Last()
	assert.False(t, ok)

	conv := Conversation{{Role: RoleAssistant, Content: "a"}, {Role: RoleAssistant, Content: "b"}}
	last, ok := conv.Last()
	assert.True(t, ok)
	assert.Equal(t, "b", last.Content)
}
