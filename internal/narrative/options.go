package narrative

import (
	"regexp"
	"strings"
)

// Option is a labeled branching choice offered by the narrator.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// optionMarker matches the bold "**Option N**" header of marker contract v1.
// A trailing ":" "." or "-" after the header is treated as part of the marker.
var optionMarker = regexp.MustCompile(`\*\*\s*Option\s+(\d+)\s*[:.\-]?\s*\*\*[ \t]*[:.\-]?`)

// ExtractOptions scans narrator text for option markers and returns the
// choices in source order. Each body runs to the next marker or the end of
// the text. Repeated labels keep their first occurrence. Text without markers
// yields no options.
func ExtractOptions(text string) []Option {
	matches := optionMarker.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	options := make([]Option, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for i, m := range matches {
		label := text[m[2]:m[3]]

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])

		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		options = append(options, Option{Label: label, Text: body})
	}

	return options
}

// FindOption returns the option with the given label.
func FindOption(options []Option, label string) (Option, bool) {
	label = strings.TrimSpace(label)
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}
