// Package mbox reads messages sequentially from a single mbox archive
// file and hands each one to a callback as a parsed, header-decoded
// model.Message.
package mbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	netmail "net/mail"
	"os"
	"strings"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/mbox-tools/mbox-to-corpus/model"
)

// Read opens an mbox file and iterates through its messages, calling
// the provided callback for each one. Per-message parse failures are
// delivered as envelopes carrying an error so the caller can count
// them; only a failure to open the archive is returned directly.
func Read(path string, fn func(model.Envelope) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	return ReadFrom(file, fn)
}

// ReadFrom iterates over an already-open mbox stream.
func ReadFrom(r io.Reader, fn func(model.Envelope) error) error {
	reader := mboxlib.NewReader(r)

	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// The framing is broken, nothing further can be read.
			return fn(model.Envelope{Err: fmt.Errorf("message %d: %w", idx, err)})
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			if err := fn(model.Envelope{Err: fmt.Errorf("message %d read: %w", idx, err)}); err != nil {
				return err
			}
			continue
		}

		msg, err := Parse(raw)
		if err != nil {
			if err := fn(model.Envelope{Err: fmt.Errorf("message %d parse: %w", idx, err)}); err != nil {
				return err
			}
			continue
		}

		if err := fn(model.Envelope{Message: msg}); err != nil {
			return err
		}
	}
}

// Parse turns one raw RFC 5322 message into a model.Message with all
// consumed headers resolved to decoded text. Unknown charsets in
// encoded words degrade to the undecoded value instead of failing.
func Parse(raw []byte) (*model.Message, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, err
	}

	header := mail.Header{Header: entity.Header}

	msg := &model.Message{
		From:    headerText(entity.Header, "From"),
		To:      headerText(entity.Header, "To"),
		Cc:      headerText(entity.Header, "Cc"),
		Subject: headerText(entity.Header, "Subject"),
		Entity:  entity,
	}

	if id, err := header.MessageID(); err == nil && id != "" {
		msg.MessageID = id
	} else {
		msg.MessageID = strings.Trim(strings.TrimSpace(entity.Header.Get("Message-Id")), "<>")
	}

	if date := entity.Header.Get("Date"); date != "" {
		if t, err := netmail.ParseDate(date); err == nil {
			msg.Date = t
			msg.HasDate = true
		}
	}

	return msg, nil
}

// CountMessages counts the total number of messages in an mbox file.
func CountMessages(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)

	count := 0
	for {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return count, err
		}

		// Just consume the message without parsing.
		if _, err := io.Copy(io.Discard, msgReader); err != nil {
			count++
			continue
		}
		count++
	}
}

func headerText(h message.Header, key string) string {
	// Text decodes RFC 2047 encoded words; on unknown charsets it
	// still returns the best-effort undecoded value.
	if v, _ := h.Text(key); v != "" {
		return v
	}
	return h.Get(key)
}
