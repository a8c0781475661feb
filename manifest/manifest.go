// Package manifest persists which documents a corpus directory
// already contains, so a rerun over the same archive skips existing
// entries instead of rewriting them.
package manifest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file kept inside the corpus directory.
const FileName = ".manifest.jsonl"

type record struct {
	Identifier string `json:"identifier"`
	Filename   string `json:"filename"`
}

// Manifest maps document identifiers to the filenames written for
// them, backed by an append-only JSONL file.
type Manifest struct {
	path    string
	entries map[string]string
	file    *os.File
	writer  *bufio.Writer
}

// Open loads the manifest of a corpus directory, creating an empty
// one when none exists, and readies it for appending.
func Open(dir string) (*Manifest, error) {
	m := &Manifest{
		path:    filepath.Join(dir, FileName),
		entries: make(map[string]string),
	}

	if err := m.load(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(m.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open manifest for append: %w", err)
	}
	m.file = file
	m.writer = bufio.NewWriterSize(file, 64*1024)

	return m, nil
}

func (m *Manifest) load() error {
	file, err := os.Open(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(text, &rec); err != nil {
			return fmt.Errorf("parse manifest line %d: %w", line, err)
		}
		if rec.Identifier == "" {
			continue
		}
		m.entries[rec.Identifier] = rec.Filename
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	return nil
}

// Lookup returns the filename previously written for an identifier.
func (m *Manifest) Lookup(identifier string) (string, bool) {
	filename, ok := m.entries[identifier]
	return filename, ok
}

// Add records a written document. Recording the same identifier twice
// is a no-op.
func (m *Manifest) Add(identifier, filename string) error {
	if identifier == "" {
		return nil
	}
	if _, exists := m.entries[identifier]; exists {
		return nil
	}
	m.entries[identifier] = filename

	data, err := json.Marshal(record{Identifier: identifier, Filename: filename})
	if err != nil {
		return fmt.Errorf("encode manifest record: %w", err)
	}
	if _, err := m.writer.Write(data); err != nil {
		return fmt.Errorf("write manifest record: %w", err)
	}
	if err := m.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Len returns the number of recorded documents.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Close flushes and closes the manifest file.
func (m *Manifest) Close() error {
	if m.file == nil {
		return nil
	}

	var firstErr error
	if err := m.writer.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("flush manifest: %w", err)
	}
	if err := m.file.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("sync manifest: %w", err)
	}
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close manifest: %w", err)
	}
	return firstErr
}
