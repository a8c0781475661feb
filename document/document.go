// Package document assembles and serializes corpus documents: a
// fixed-order metadata block, a separator line and the extracted
// body.
package document

import (
	"strings"
	"time"

	"github.com/mbox-tools/mbox-to-corpus/model"
	"github.com/mbox-tools/mbox-to-corpus/naming"
)

// Separator divides the metadata block from the body in every
// serialized document.
const Separator = "--- Email Content ---"

const (
	unknownDate      = "Unknown"
	unknownSender    = "Unknown Sender"
	unknownRecipient = "Unknown Recipient"
	noSubject        = "No Subject"

	dateDisplayLayout = "2006-01-02 15:04:05 MST"
)

// Document is one fully assembled corpus entry, ready to be written
// under Filename. Body is non-empty by construction: empty-body
// messages are skipped before assembly.
type Document struct {
	Date       time.Time
	HasDate    bool
	From       string
	To         string
	Cc         string
	Subject    string
	Body       string
	Identifier string
	Filename   string
}

// FromMessage builds a Document from a parsed message and its
// extracted body, applying display defaults for absent headers and
// deriving the output filename.
func FromMessage(msg *model.Message, body string) Document {
	from := msg.From
	if from == "" {
		from = unknownSender
	}
	to := msg.To
	if to == "" {
		to = unknownRecipient
	}
	subject := msg.Subject
	if subject == "" {
		subject = noSubject
	}

	id := naming.Identifier(msg.MessageID, subject, body)

	return Document{
		Date:       msg.Date,
		HasDate:    msg.HasDate,
		From:       from,
		To:         to,
		Cc:         msg.Cc,
		Subject:    subject,
		Body:       body,
		Identifier: id,
		Filename:   naming.Filename(msg.Date, msg.HasDate, subject, id),
	}
}

// Render serializes the document: metadata lines in fixed order (Cc
// only when present), the separator, then the body. Nothing is ever
// truncated or reordered.
func (d Document) Render() string {
	var b strings.Builder

	date := unknownDate
	if d.HasDate {
		date = d.Date.Format(dateDisplayLayout)
	}

	b.WriteString("Email Date: " + date + "\n")
	b.WriteString("From: " + d.From + "\n")
	b.WriteString("To: " + d.To + "\n")
	if d.Cc != "" {
		b.WriteString("Cc: " + d.Cc + "\n")
	}
	b.WriteString("Subject: " + d.Subject + "\n")
	b.WriteString("\n" + Separator + "\n")
	b.WriteString(d.Body)

	return b.String()
}
