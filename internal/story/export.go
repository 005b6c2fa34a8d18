package story

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExportFormat represents supported transcript formats
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
)

// TurnExport is a turn with its position in the session, for export
type TurnExport struct {
	Index   int    `json:"index"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// ExportConversation writes the transcript in the requested format
func ExportConversation(conv Conversation, format string, writer io.Writer) error {
	exportFormat := ExportFormat(strings.ToLower(format))

	exports := make([]TurnExport, len(conv))
	for i, t := range conv {
		exports[i] = TurnExport{
			Index:   i,
			Role:    t.Role,
			Content: t.Content,
			Image:   t.Image,
		}
	}

	switch exportFormat {
	case FormatJSON:
		return exportJSON(exports, writer)
	case FormatMarkdown, "md":
		return exportMarkdown(exports, writer)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, markdown)", format)
	}
}

func exportJSON(exports []TurnExport, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exports)
}

func exportMarkdown(exports []TurnExport, writer io.Writer) error {
	var b strings.Builder
	for i, t := range exports {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		if t.Image != "" {
			b.WriteString(fmt.Sprintf("![turn %d](%s)\n\n", t.Index, t.Image))
		}
		if t.Role == RoleUser {
			b.WriteString("> ")
		}
		b.WriteString(strings.TrimSpace(t.Content))
		b.WriteString("\n")
	}
	_, err := io.WriteString(writer, b.String())
	return err
}
