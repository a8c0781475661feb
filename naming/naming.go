// Package naming derives stable, filesystem-safe document filenames
// from message metadata. Derivation is a pure function: the same
// inputs always produce the same name, which is what makes reruns
// over the same archive idempotent.
package naming

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

const (
	// Extension is the suffix of every emitted corpus document.
	Extension = ".txt"

	// noDate is the filename prefix for messages without a parseable Date.
	noDate = "NODATE"

	datePrefixLayout = "20060102_150405"

	maxIdentifierLen = 70
	maxSubjectLen    = 40

	// hashBodyPrefixLen bounds how much body text feeds the fallback hash.
	hashBodyPrefixLen = 200
)

var (
	unsafeComponentRe  = regexp.MustCompile(`[\\/*?:"<>|]`)
	unsafeIdentifierRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
)

// CleanComponent sanitizes a string for use as a filename or path
// component: path separators and shell-special characters become
// underscores, embedded newlines collapse to underscores, and the
// result is hard-truncated to maxLen. Empty input yields "unknown".
func CleanComponent(s string, maxLen int) string {
	if s == "" {
		return "unknown"
	}
	cleaned := unsafeComponentRe.ReplaceAllString(s, "_")
	cleaned = strings.ReplaceAll(cleaned, "\n", "_")
	cleaned = strings.ReplaceAll(cleaned, "\r", "_")
	return strings.TrimSpace(truncate(cleaned, maxLen))
}

// Identifier derives a collision-resistant identifier for a message.
//
// When a Message-ID is present it is the source of truth: angle
// brackets are stripped, "@" becomes "_at_", anything outside
// [A-Za-z0-9_.-] becomes "_", and the result is bounded in length.
// Without a Message-ID the identifier falls back to a truncated md5
// over the subject plus the first 200 characters of the body. The
// fallback is best-effort only: near-duplicate short messages can
// collide, and no collision detection is attempted.
func Identifier(messageID, subject, body string) string {
	messageID = strings.Trim(strings.TrimSpace(messageID), "<>")
	if messageID != "" {
		id := strings.ReplaceAll(messageID, "@", "_at_")
		id = unsafeIdentifierRe.ReplaceAllString(id, "_")
		return truncate(id, maxIdentifierLen)
	}

	sum := md5.Sum([]byte(subject + truncate(body, hashBodyPrefixLen)))
	return hex.EncodeToString(sum[:])[:12]
}

// Filename composes the full document filename: a date prefix (or
// NODATE), a sanitized subject fragment and the identifier.
func Filename(date time.Time, hasDate bool, subject, identifier string) string {
	prefix := noDate
	if hasDate {
		prefix = date.Format(datePrefixLayout)
	}
	return prefix + "_" + CleanComponent(subject, maxSubjectLen) + "_" + identifier + Extension
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
