// Package stats holds the run statistics of one conversion pass.
package stats

import (
	"fmt"
	"sort"
)

// Summary counts per-message outcomes of a conversion run. Counters
// are monotonic, mutated only by the archive walker, exactly one
// update per message.
type Summary struct {
	Processed     int
	SkippedNoBody int
	SkippedSocial int
	Duplicates    int
	Errors        int
	LastError     error
}

// LogAttrs renders the summary as slog key/value attributes.
func (s Summary) LogAttrs() []any {
	attrs := []any{
		"processed", s.Processed,
		"skippedNoBody", s.SkippedNoBody,
		"skippedSocial", s.SkippedSocial,
		"duplicates", s.Duplicates,
		"errors", s.Errors,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

// Total returns the number of messages seen by the walker.
func (s Summary) Total() int {
	return s.Processed + s.SkippedNoBody + s.SkippedSocial + s.Duplicates + s.Errors
}

// PrettyPrintTop prints the top N most frequent items in a map.
func PrettyPrintTop(m map[string]int, limit int) {
	type pair struct {
		Key   string
		Value int
	}

	var pairs []pair
	for k, v := range m {
		pairs = append(pairs, pair{k, v})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Value > pairs[j].Value
	})

	for i := 0; i < limit && i < len(pairs); i++ {
		fmt.Printf("%d. %s (%d)\n", i+1, pairs[i].Key, pairs[i].Value)
	}
}
