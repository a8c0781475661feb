package runner

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbox-tools/mbox-to-corpus/classify"
	"github.com/mbox-tools/mbox-to-corpus/config"
	"github.com/mbox-tools/mbox-to-corpus/document"
	"github.com/mbox-tools/mbox-to-corpus/manifest"
	"github.com/mbox-tools/mbox-to-corpus/naming"
)

// threeMessageMbox holds one personal plain-text email, one HTML-only
// newsletter from a noise domain, and one attachment-only message.
const threeMessageMbox = "From jane@example.com Tue Jul 15 10:30:00 2014\n" +
	"From: Jane Doe <jane@example.com>\n" +
	"To: Me <me@example.test>\n" +
	"Subject: Lunch tomorrow?\n" +
	"Date: Tue, 15 Jul 2014 10:30:00 +0000\n" +
	"Message-ID: <personal-1@example.com>\n" +
	"Content-Type: text/plain; charset=utf-8\n" +
	"\n" +
	"See you at noon.\n" +
	"\n" +
	"From notifications@facebookmail.com Wed Jul 16 08:00:00 2014\n" +
	"From: notifications@facebookmail.com\n" +
	"To: Me <me@example.test>\n" +
	"Subject: Weekly digest\n" +
	"Date: Wed, 16 Jul 2014 08:00:00 +0000\n" +
	"Message-ID: <digest-9@facebookmail.com>\n" +
	"Content-Type: text/html; charset=utf-8\n" +
	"\n" +
	"<html><body><p>Deals!</p></body></html>\n" +
	"\n" +
	"From pat@example.test Thu Jul 17 12:00:00 2014\n" +
	"From: Pat <pat@example.test>\n" +
	"To: Me <me@example.test>\n" +
	"Subject: scanned document\n" +
	"Date: Thu, 17 Jul 2014 12:00:00 +0000\n" +
	"Message-ID: <scan-2@example.test>\n" +
	"Content-Type: multipart/mixed; boundary=SEP\n" +
	"\n" +
	"--SEP\n" +
	"Content-Type: application/pdf\n" +
	"Content-Disposition: attachment; filename=\"scan.pdf\"\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"JVBERi0=\n" +
	"--SEP--\n"

func testConfig(t *testing.T, mboxPath, outDir string) config.Config {
	t.Helper()
	return config.Config{
		MboxPath:      mboxPath,
		OutputDir:     outDir,
		FilterSocial:  true,
		Keywords:      classify.DefaultKeywords(),
		ProgressEvery: 500,
		LogLevel:      "error", // keeps the progress bar out of test output
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func corpusFilenames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), naming.Extension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func TestConverter_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")

	summary, err := New(testConfig(t, mboxPath, outDir), discardLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.SkippedSocial)
	assert.Equal(t, 1, summary.SkippedNoBody)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 0, summary.Duplicates)

	names := corpusFilenames(t, outDir)
	require.Len(t, names, 1)
	assert.True(t, strings.HasPrefix(names[0], "20140715_103000_"), "filename %q", names[0])
	assert.Contains(t, names[0], "personal-1_at_example.com")

	content, err := os.ReadFile(filepath.Join(outDir, names[0]))
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "From: Jane Doe <jane@example.com>")
	assert.Contains(t, text, "Subject: Lunch tomorrow?")
	assert.Contains(t, text, "\n"+document.Separator+"\n")
	assert.True(t, strings.HasSuffix(text, "See you at noon."))
	assert.NotContains(t, text, "Cc:")
}

func TestConverter_RerunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")
	cfg := testConfig(t, mboxPath, outDir)

	_, err := New(cfg, discardLogger()).Run()
	require.NoError(t, err)
	first := corpusFilenames(t, outDir)

	summary, err := New(cfg, discardLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, first, corpusFilenames(t, outDir), "rerun must not duplicate or rename entries")
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.SkippedSocial)
	assert.Equal(t, 1, summary.SkippedNoBody)
}

func TestConverter_RerunFillsGaps(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")
	cfg := testConfig(t, mboxPath, outDir)

	_, err := New(cfg, discardLogger()).Run()
	require.NoError(t, err)
	names := corpusFilenames(t, outDir)
	require.Len(t, names, 1)

	// Simulate a crash that lost the document but kept the manifest.
	require.NoError(t, os.Remove(filepath.Join(outDir, names[0])))

	summary, err := New(cfg, discardLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, names, corpusFilenames(t, outDir))
}

// brokenTrailerMbox extends the three regular messages with one whose
// header block cannot be parsed.
const brokenTrailerMbox = threeMessageMbox + "\n" +
	"From mailer@example.test Fri Jul 18 09:00:00 2014\n" +
	"this line is not a valid header\n" +
	"Subject: corrupted\n" +
	"\n" +
	"unreachable body\n"

func TestConverter_UnreadableMessageCounted(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(brokenTrailerMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")

	summary, err := New(testConfig(t, mboxPath, outDir), discardLogger()).Run()
	require.NoError(t, err, "an unreadable message must not abort the run")

	assert.Equal(t, 1, summary.Errors)
	assert.Error(t, summary.LastError)
	assert.Equal(t, 1, summary.Processed, "remaining messages still convert")
	assert.Equal(t, 1, summary.SkippedSocial)
	assert.Equal(t, 1, summary.SkippedNoBody)
	assert.Len(t, corpusFilenames(t, outDir), 1)
}

func TestConverter_WriteFailureIsContained(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))

	// Learn the target filename from a normal run, then block that
	// path with a directory in a fresh corpus.
	scratch := filepath.Join(dir, "scratch")
	_, err := New(testConfig(t, mboxPath, scratch), discardLogger()).Run()
	require.NoError(t, err)
	names := corpusFilenames(t, scratch)
	require.Len(t, names, 1)

	outDir := filepath.Join(dir, "corpus")
	blocked := filepath.Join(outDir, names[0])
	require.NoError(t, os.MkdirAll(blocked, 0o755))

	summary, err := New(testConfig(t, mboxPath, outDir), discardLogger()).Run()
	require.NoError(t, err, "a failed document write must not abort the run")

	assert.Equal(t, 1, summary.Errors)
	assert.Error(t, summary.LastError)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.SkippedSocial)
	assert.Equal(t, 1, summary.SkippedNoBody)

	info, statErr := os.Stat(blocked)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir(), "the blocking directory must be untouched")

	m, err := manifest.Open(outDir)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, 0, m.Len(), "a failed write must not be recorded in the manifest")
}

func TestConverter_UnopenableArchiveAborts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, filepath.Join(dir, "missing.mbox"), filepath.Join(dir, "corpus"))

	_, err := New(cfg, discardLogger()).Run()
	require.Error(t, err)
}

func TestConverter_FilterDisabledKeepsNewsletter(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")

	cfg := testConfig(t, mboxPath, outDir)
	cfg.FilterSocial = false

	summary, err := New(cfg, discardLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed, "newsletter body should be extracted from HTML")
	assert.Equal(t, 0, summary.SkippedSocial)
	assert.Equal(t, 1, summary.SkippedNoBody)
	assert.Len(t, corpusFilenames(t, outDir), 2)
}

func TestConverter_ManifestLives(t *testing.T) {
	dir := t.TempDir()
	mboxPath := filepath.Join(dir, "archive.mbox")
	require.NoError(t, os.WriteFile(mboxPath, []byte(threeMessageMbox), 0o644))
	outDir := filepath.Join(dir, "corpus")

	_, err := New(testConfig(t, mboxPath, outDir), discardLogger()).Run()
	require.NoError(t, err)

	m, err := manifest.Open(outDir)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 1, m.Len())
	_, ok := m.Lookup("personal-1_at_example.com")
	assert.True(t, ok)
}
