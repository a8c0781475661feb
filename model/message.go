package model

import (
	"time"

	"github.com/emersion/go-message"
)

// Message represents a single email message read from an mbox archive.
// Header values are resolved to canonical decoded text once at parse
// time; Entity keeps the full MIME structure for body extraction.
type Message struct {
	MessageID string
	From      string
	To        string
	Cc        string
	Subject   string
	Date      time.Time
	HasDate   bool

	Entity *message.Entity
}

// Envelope wraps a message alongside an optional error encountered while decoding.
type Envelope struct {
	Message *Message
	Err     error
}
