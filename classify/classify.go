// Package classify decides whether a message sender is
// social/promotional noise that should be kept out of the corpus.
package classify

import (
	netmail "net/mail"
	"strings"
)

// Classifier matches From headers against a lowercase keyword list.
// A sender is noise when any keyword appears as a substring of any
// display name or address in the header. Matching is intentionally
// broad: short generic keywords like "job" or "alerts" will also hit
// unrelated personal mail, a deliberate recall-over-precision
// trade-off.
type Classifier struct {
	keywords []string
}

// New builds a Classifier from the given keywords. Keywords are
// lowercased and blank entries dropped; duplicates are collapsed.
func New(keywords []string) *Classifier {
	seen := make(map[string]struct{}, len(keywords))
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		cleaned = append(cleaned, kw)
	}
	return &Classifier{keywords: cleaned}
}

// Keywords returns the active keyword list.
func (c *Classifier) Keywords() []string {
	return c.keywords
}

// IsNoise reports whether the From header identifies a noise sender.
// An empty or missing header fails open: the message is kept.
func (c *Classifier) IsNoise(from string) bool {
	_, ok := c.Match(from)
	return ok
}

// Match returns the first keyword matching the From header, if any.
func (c *Classifier) Match(from string) (string, bool) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", false
	}

	lowered := strings.ToLower(from)

	var candidates []string
	if addrs, err := netmail.ParseAddressList(lowered); err == nil {
		for _, addr := range addrs {
			if addr.Address != "" {
				candidates = append(candidates, addr.Address)
			}
			if addr.Name != "" {
				candidates = append(candidates, addr.Name)
			}
		}
	} else {
		// Unparseable header: match against the raw lowered text.
		candidates = []string{lowered}
	}

	for _, cand := range candidates {
		for _, kw := range c.keywords {
			if strings.Contains(cand, kw) {
				return kw, true
			}
		}
	}
	return "", false
}
