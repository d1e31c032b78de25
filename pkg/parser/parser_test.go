package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

func utcParser() *Parser {
	return NewParser(ParserConfig{Location: time.UTC})
}

func TestParseBasicExchange(t *testing.T) {
	input := "[1/5/24, 9:00:00 AM] Alice: hello\n[1/5/24, 9:05:00 AM] Bob: hi\nworld"

	messages := utcParser().Parse(input)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Author != "Alice" || messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[0].Type != models.MessageTypeText {
		t.Errorf("expected text type, got %s", messages[0].Type)
	}

	// Continuation line joins the previous message body with a newline.
	if messages[1].Author != "Bob" {
		t.Errorf("expected author Bob, got %q", messages[1].Author)
	}
	if messages[1].Content != "hi\nworld" {
		t.Errorf("expected content %q, got %q", "hi\nworld", messages[1].Content)
	}

	want := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	if !messages[0].Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, messages[0].Timestamp)
	}
}

func TestParseSystemMessage(t *testing.T) {
	input := "[1/5/24, 9:10:00 AM] Alice added Bob"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	msg := messages[0]
	if msg.Type != models.MessageTypeSystem {
		t.Errorf("expected system type, got %s", msg.Type)
	}
	if msg.Author != models.SystemAuthor {
		t.Errorf("expected author %q, got %q", models.SystemAuthor, msg.Author)
	}
	if msg.Content != "Alice added Bob" {
		t.Errorf("unexpected content %q", msg.Content)
	}
}

func TestParseAttachmentMessage(t *testing.T) {
	input := "[1/5/24, 9:00:00 AM] Alice: image omitted"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	msg := messages[0]
	if msg.Type != models.MessageTypeAttachment {
		t.Errorf("expected attachment type, got %s", msg.Type)
	}
	if msg.AttachmentInfo != "image" {
		t.Errorf("expected attachment info %q, got %q", "image", msg.AttachmentInfo)
	}
}

func TestParseDropsUnparseableTimestamp(t *testing.T) {
	input := strings.Join([]string{
		"[1/5/24, 9:00:00 AM] Alice: hello",
		"[13/45/24, 9:00:00 AM] X: y",
		"[1/5/24, 9:05:00 AM] Bob: hi",
	}, "\n")

	p := utcParser()
	messages := p.Parse(input)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	for _, msg := range messages {
		if msg.Author == "X" {
			t.Error("message with unparseable date must not be emitted")
		}
	}

	if len(p.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %d: %v", len(p.Warnings()), p.Warnings())
	}

	_, parsed, dropped := p.Stats()
	if parsed != 2 {
		t.Errorf("expected 2 parsed messages, got %d", parsed)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped line, got %d", dropped)
	}
}

func TestParseDropsContinuationAfterBadTimestamp(t *testing.T) {
	// A continuation after a dropped header has no message to attach to and
	// is silently discarded.
	input := strings.Join([]string{
		"[13/45/24, 9:00:00 AM] X: y",
		"orphan continuation",
		"[1/5/24, 9:05:00 AM] Bob: hi",
	}, "\n")

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "hi" {
		t.Errorf("continuation leaked into next message: %q", messages[0].Content)
	}
}

func TestParseEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "only whitespace", input: "  \n\n\t\n"},
		{name: "no matching lines", input: "not an export\njust some text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := utcParser().Parse(tt.input)
			if len(messages) != 0 {
				t.Errorf("expected no messages, got %d", len(messages))
			}
		})
	}
}

func TestParseSortsByTimestamp(t *testing.T) {
	input := strings.Join([]string{
		"[1/5/24, 9:10:00 AM] Bob: second",
		"[1/5/24, 9:00:00 AM] Alice: first",
		"[1/5/24, 9:20:00 AM] Carol: third",
	}, "\n")

	messages := utcParser().Parse(input)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if messages[i].Content != want {
			t.Errorf("position %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}

	for i := 1; i < len(messages); i++ {
		if messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Error("messages not sorted by ascending timestamp")
		}
	}
}

func TestParseEqualTimestampsKeepOriginalOrder(t *testing.T) {
	input := strings.Join([]string{
		"[1/5/24, 9:00:00 AM] Alice: one",
		"[1/5/24, 9:00:00 AM] Bob: two",
		"[1/5/24, 9:00:00 AM] Carol: three",
	}, "\n")

	messages := utcParser().Parse(input)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	wantOrder := []string{"one", "two", "three"}
	for i, want := range wantOrder {
		if messages[i].Content != want {
			t.Errorf("position %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}
}

func TestParseFlushesTrailingMessage(t *testing.T) {
	input := "[1/5/24, 9:00:00 AM] Alice: hello\ncontinued"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "hello\ncontinued" {
		t.Errorf("trailing message not flushed with continuation: %q", messages[0].Content)
	}
}

func TestParseEmptyContent(t *testing.T) {
	input := "[1/5/24, 9:00:00 AM] Alice:"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Author != "Alice" {
		t.Errorf("expected author Alice, got %q", messages[0].Author)
	}
	if messages[0].Content != "" {
		t.Errorf("expected empty content, got %q", messages[0].Content)
	}
}

func TestParse24HourTimestamps(t *testing.T) {
	input := "[1/5/24, 21:30:05] Alice: evening"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	want := time.Date(2024, 1, 5, 21, 30, 5, 0, time.UTC)
	if !messages[0].Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, messages[0].Timestamp)
	}
}

func TestParseSystemLineWithColonContentIsAuthored(t *testing.T) {
	// The author pattern is tried first: a notification whose body contains
	// a colon is classified as an authored message, matching the shape rule.
	input := "[1/5/24, 9:00:00 AM] Messages are encrypted: tap for info"

	messages := utcParser().Parse(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Type != models.MessageTypeText {
		t.Errorf("expected text type, got %s", messages[0].Type)
	}
	if messages[0].Author != "Messages are encrypted" {
		t.Errorf("unexpected author %q", messages[0].Author)
	}
}

func TestParseConvenienceFunction(t *testing.T) {
	messages := Parse("[1/5/24, 9:00:00 AM] Alice: hello")
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
}
