package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sceneFixture is shaped the way SystemDirective asks the model to answer.
const sceneFixture = `You stand at the mouth of a cave. Wind howls behind you.

**Option 1**
Light a torch and enter the cave.

**Option 2**
Follow the cliff path north.

**Option 3**
Wait for the storm to pass.`

func TestExtractOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Option
	}{
		{
			name: "two options",
			text: "**Option 1**\nGo north\n**Option 2**\nGo south",
			want: []Option{{Label: "1", Text: "Go north"}, {Label: "2", Text: "Go south"}},
		},
		{
			name: "no markers",
			text: "no markers here",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "inline bodies with punctuation",
			text: "Intro.\n**Option 1:** Open the door.\n**Option 2** - Climb out the window.",
			want: []Option{{Label: "1", Text: "Open the door."}, {Label: "2", Text: "Climb out the window."}},
		},
		{
			name: "duplicate label keeps first",
			text: "**Option 1**\nfirst\n**Option 1**\nsecond\n**Option 2**\nthird",
			want: []Option{{Label: "1", Text: "first"}, {Label: "2", Text: "third"}},
		},
		{
			name: "source order preserved",
			text: "**Option 3**\nc\n**Option 1**\na",
			want: []Option{{Label: "3", Text: "c"}, {Label: "1", Text: "a"}},
		},
		{
			name: "marker without body",
			text: "**Option 1**",
			want: []Option{{Label: "1", Text: ""}},
		},
		{
			name: "plain option word is not a marker",
			text: "You have an Option 1 and Option 2.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractOptions(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOptions_Idempotent(t *testing.T) {
	first := ExtractOptions(sceneFixture)
	second := ExtractOptions(sceneFixture)
	assert.Equal(t, first, second)
}

func TestExtractOptions_SceneFixture(t *testing.T) {
	options := ExtractOptions(sceneFixture)

	require.Len(t, options, 3)
	assert.Equal(t, "1", options[0].Label)
	assert.Equal(t, "Light a torch and enter the cave.", options[0].Text)
	assert.Equal(t, "Wait for the storm to pass.", options[2].Text)
}

// The directive's example format must round-trip through the extractor.
func TestExtractOptions_MatchesDirectiveFormat(t *testing.T) {
	options := ExtractOptions(SystemDirective)

	require.Len(t, options, 3, "marker contract v%d", MarkerFormatVersion)
	for i, o := range options {
		assert.Equal(t, string(rune('1'+i)), o.Label)
	}
}

func TestFindOption(t *testing.T) {
	options := ExtractOptions(sceneFixture)

	o, ok := FindOption(options, " 2 ")
	require.True(t, ok)
	assert.Equal(t, "Follow the cliff path north.", o.Text)

	_, ok = FindOption(options, "4")
	assert.False(t, ok)
}
