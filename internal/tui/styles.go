package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Yates-Labs/storyjourney/internal/narrative"
	"github.com/Yates-Labs/storyjourney/internal/story"
)

var (
	headerColor   = lipgloss.Color("#F780FF") // Bright pink
	playerColor   = lipgloss.Color("#8BE9FD") // Cyan
	narratorColor = lipgloss.Color("#E9E9F4") // Light purple/white
	mutedColor    = lipgloss.Color("#6272A4") // Muted purple
	errorColor    = lipgloss.Color("#FF5555") // Red
	optionColor   = lipgloss.Color("#50FA7B") // Green
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true)

	NarratorStyle = lipgloss.NewStyle().
			Foreground(narratorColor)

	PlayerStyle = lipgloss.NewStyle().
			Foreground(playerColor).
			Italic(true)

	ImageStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	OptionLabelStyle = lipgloss.NewStyle().
				Foreground(optionColor).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// RenderTurn formats one conversation turn. A width of zero disables wrapping.
func RenderTurn(turn story.Turn, width int) string {
	style := NarratorStyle
	if turn.Role == story.RoleUser {
		style = PlayerStyle
	}
	if width > 0 {
		style = style.Width(width)
	}

	var b strings.Builder
	b.WriteString(style.Render(strings.TrimSpace(turn.Content)))
	if turn.HasImage() {
		b.WriteString("\n")
		b.WriteString(ImageStyle.Render("🖼  " + turn.Image))
	}
	return b.String()
}

// RenderOptions lists the offered choices as "[N] text" lines.
func RenderOptions(options []narrative.Option) string {
	lines := make([]string, 0, len(options))
	for _, opt := range options {
		text := strings.Join(strings.Fields(opt.Text), " ")
		lines = append(lines, fmt.Sprintf("%s %s", OptionLabelStyle.Render("["+opt.Label+"]"), text))
	}
	return strings.Join(lines, "\n")
}

// RenderError formats err for display, or returns "" for nil.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	return ErrorStyle.Render("Error:") + " " + err.Error()
}
