package parser

import (
	"regexp"
	"strings"
)

// attachedFileRe matches the "<attached: filename>" placeholder inserted when
// a chat is exported with media included.
var attachedFileRe = regexp.MustCompile(`(?i)<attached:\s*(.+?)>`)

// omittedPlaceholders maps "without media" export placeholders to attachment
// kinds, in match-priority order.
var omittedPlaceholders = []struct {
	marker string
	kind   string
}{
	{"image omitted", "image"},
	{"video omitted", "video"},
	{"audio omitted", "audio"},
	{"document omitted", "document"},
	{"contact card omitted", "contact"},
	{"location omitted", "location"},
	{"gif omitted", "gif"},
	{"sticker omitted", "sticker"},
}

// detectAttachment inspects message content for export attachment
// placeholders. It returns the attachment classification and true on the
// first matching pattern, or ("", false) when the content is ordinary text.
func detectAttachment(content string) (string, bool) {
	if m := attachedFileRe.FindStringSubmatch(content); m != nil {
		return "file: " + strings.TrimSpace(m[1]), true
	}

	lower := strings.ToLower(content)
	for _, p := range omittedPlaceholders {
		if strings.Contains(lower, p.marker) {
			return p.kind, true
		}
	}

	return "", false
}
