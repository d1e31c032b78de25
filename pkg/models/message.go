package models

import "time"

// MessageType classifies a parsed chat message
type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeAttachment MessageType = "attachment"
	MessageTypeSystem     MessageType = "system"
)

// SystemAuthor is the reserved author name for platform-generated messages
// (membership changes, group settings, etc.)
const SystemAuthor = "System"

// Message represents a single entry parsed from a WhatsApp chat export.
// Content spans multiple export lines joined by newlines when the original
// message contained line breaks.
type Message struct {
	Timestamp      time.Time   `json:"timestamp"`
	Author         string      `json:"author"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	AttachmentInfo string      `json:"attachment_info,omitempty"`
}

// IsSystem reports whether the message was generated by the platform
// rather than authored by a participant.
func (m Message) IsSystem() bool {
	return m.Type == MessageTypeSystem
}
