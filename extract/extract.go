// Package extract derives the best-effort plain-text content of an
// email message. Plain-text parts are preferred; HTML-only messages
// are converted by stripping markup. Extraction never fails: anything
// that cannot be decoded simply contributes nothing.
package extract

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

var (
	styleRe  = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>.*?</style>`)
	scriptRe = regexp.MustCompile(`(?is)<script(?:\s[^>]*)?>.*?</script>`)
	headRe   = regexp.MustCompile(`(?is)<head(?:\s[^>]*)?>.*?</head>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Body returns the plain-text content of a message, or "" when none
// can be extracted.
//
// Multipart messages are walked depth-first in native part order,
// skipping attachment-disposed parts. The first text/plain part found
// is final; if none exists, the first text/html part is converted to
// text. Single-part messages are decoded directly, with HTML content
// stripped of markup.
func Body(e *message.Entity) string {
	if e == nil {
		return ""
	}

	if mr := e.MultipartReader(); mr != nil {
		var found bodies
		walkParts(mr, &found)
		if found.plainOK {
			return strings.TrimSpace(found.plain)
		}
		if found.htmlOK {
			return HTMLToText(found.html)
		}
		return ""
	}

	text, ok := readPart(e)
	if !ok {
		return ""
	}
	if mediaType(e) == "text/html" {
		return HTMLToText(text)
	}
	return strings.TrimSpace(text)
}

// bodies tracks the first successfully decoded plain and HTML parts
// encountered during traversal. A part counts as found once it
// decodes, even to empty text.
type bodies struct {
	plain   string
	plainOK bool
	html    string
	htmlOK  bool
}

func walkParts(mr message.MultipartReader, found *bodies) {
	for !found.plainOK {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil && !message.IsUnknownCharset(err) {
			// Broken part boundary, keep whatever was found so far.
			return
		}
		if part == nil {
			return
		}

		if nested := part.MultipartReader(); nested != nil {
			walkParts(nested, found)
			continue
		}

		if disp, _, _ := part.Header.ContentDisposition(); strings.EqualFold(disp, "attachment") {
			continue
		}

		switch mediaType(part) {
		case "text/plain":
			if text, ok := readPart(part); ok {
				found.plain = text
				found.plainOK = true
			}
		case "text/html":
			if !found.htmlOK {
				if text, ok := readPart(part); ok {
					found.html = text
					found.htmlOK = true
				}
			}
		}
	}
}

// HTMLToText converts an HTML document to plain text: style, script
// and head blocks are removed outright, every remaining tag becomes a
// single space, and whitespace runs are collapsed.
func HTMLToText(html string) string {
	text := styleRe.ReplaceAllString(html, "")
	text = scriptRe.ReplaceAllString(text, "")
	text = headRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func readPart(e *message.Entity) (string, bool) {
	b, err := io.ReadAll(e.Body)
	if err != nil {
		return "", false
	}
	// Invalid byte sequences are replaced rather than failing the part.
	return strings.ToValidUTF8(string(b), "�"), true
}

func mediaType(e *message.Entity) string {
	t, _, err := e.Header.ContentType()
	if err != nil || t == "" {
		return "text/plain"
	}
	return t
}
