// Package parser turns raw WhatsApp chat-export text into a time-ordered
// sequence of structured messages.
//
// The export format is line oriented and stateful: a line either opens a new
// message (bracketed timestamp, author, colon), opens a system notification
// (bracketed timestamp, no colon-delimited author), or continues the body of
// the previous message. Lines that parse to nothing are skipped, never fatal.
package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

var (
	// messageLineRe matches "[date, time] author: content". The author
	// segment runs up to the first colon; content may be empty.
	messageLineRe = regexp.MustCompile(`^\[([^,\]]+),\s*([^\]]+)\]\s*([^:]+):\s?(.*)$`)

	// systemLineRe matches "[date, time] content" with no colon-delimited
	// author. Tried only after messageLineRe fails.
	systemLineRe = regexp.MustCompile(`^\[([^,\]]+),\s*([^\]]+)\]\s*(.*)$`)
)

// ParserConfig contains configuration for the export parser
type ParserConfig struct {
	Location *time.Location // timezone for export timestamps (default: time.Local)
}

// DefaultParserConfig returns default parser configuration
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Location: time.Local,
	}
}

// Parser parses WhatsApp export text and records per-run statistics and
// warnings for lines it had to drop.
type Parser struct {
	loc          *time.Location
	totalLines   int
	parsedCount  int
	droppedCount int
	warnings     []string
}

// NewParser creates a new export parser instance
func NewParser(config ...ParserConfig) *Parser {
	cfg := DefaultParserConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Parser{
		loc:      cfg.Location,
		warnings: make([]string, 0),
	}
}

// Parse scans the export text line by line and returns the emitted messages
// sorted ascending by timestamp (stable for equal timestamps).
//
// A zero-length result means the input was not a recognizable export; the
// caller decides how to surface that.
func (p *Parser) Parse(text string) []models.Message {
	p.totalLines = 0
	p.parsedCount = 0
	p.droppedCount = 0
	p.warnings = p.warnings[:0]

	messages := make([]models.Message, 0)
	var current *models.Message

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		p.totalLines++

		if m := messageLineRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				messages = append(messages, *current)
			}
			current = p.startMessage(m[1], m[2], m[3], m[4], false)
			continue
		}

		if m := systemLineRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				messages = append(messages, *current)
			}
			current = p.startMessage(m[1], m[2], models.SystemAuthor, m[3], true)
			continue
		}

		// Continuation of the previous message body, or noise before the
		// first message.
		if current != nil {
			current.Content += "\n" + line
		} else {
			p.droppedCount++
		}
	}

	if current != nil {
		messages = append(messages, *current)
	}

	// Guards against minor out-of-order lines in the export; not a
	// substitute for correct timestamp parsing.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	p.parsedCount = len(messages)
	return messages
}

// startMessage builds a new in-progress message from a matched header line.
// Returns nil when the timestamp fails to parse, in which case the line is
// dropped and a warning recorded.
func (p *Parser) startMessage(dateToken, timeToken, author, content string, system bool) *models.Message {
	ts, err := parseTimestamp(dateToken, timeToken, p.loc)
	if err != nil {
		p.droppedCount++
		p.warnings = append(p.warnings, err.Error())
		return nil
	}

	msg := &models.Message{
		Timestamp: ts,
		Author:    strings.TrimSpace(author),
		Content:   content,
		Type:      models.MessageTypeText,
	}

	if system {
		msg.Type = models.MessageTypeSystem
		return msg
	}

	if info, ok := detectAttachment(content); ok {
		msg.Type = models.MessageTypeAttachment
		msg.AttachmentInfo = info
	}

	return msg
}

// Warnings returns the warnings recorded during the last Parse call
func (p *Parser) Warnings() []string {
	return p.warnings
}

// Stats returns line statistics for the last Parse call
func (p *Parser) Stats() (totalLines, parsedMessages, droppedLines int) {
	return p.totalLines, p.parsedCount, p.droppedCount
}

// Parse is a convenience wrapper parsing text with a default-configured
// parser.
func Parse(text string) []models.Message {
	return NewParser().Parse(text)
}
