// Package runner drives one conversion pass: it walks the mbox
// archive sequentially, gates each message through the classifier,
// extracts its body, assembles a document and writes it to the corpus
// directory, tallying run statistics as it goes.
package runner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mbox-tools/mbox-to-corpus/classify"
	"github.com/mbox-tools/mbox-to-corpus/config"
	"github.com/mbox-tools/mbox-to-corpus/document"
	"github.com/mbox-tools/mbox-to-corpus/extract"
	"github.com/mbox-tools/mbox-to-corpus/manifest"
	"github.com/mbox-tools/mbox-to-corpus/mbox"
	"github.com/mbox-tools/mbox-to-corpus/model"
	"github.com/mbox-tools/mbox-to-corpus/progress"
	"github.com/mbox-tools/mbox-to-corpus/stats"
)

// Converter runs the mbox-to-corpus pipeline for one archive.
type Converter struct {
	cfg        config.Config
	classifier *classify.Classifier
	logger     *slog.Logger

	summary stats.Summary
}

// New builds a Converter from a validated configuration.
func New(cfg config.Config, logger *slog.Logger) *Converter {
	return &Converter{
		cfg:        cfg,
		classifier: classify.New(cfg.Keywords),
		logger:     logger,
	}
}

// Run converts the archive. Only a failure to open the archive or to
// prepare the output directory aborts the run; every per-message
// failure is contained, counted and logged. The returned summary is
// valid even alongside a non-nil error.
func (c *Converter) Run() (stats.Summary, error) {
	started := time.Now()

	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return c.summary, fmt.Errorf("create output directory: %w", err)
	}

	man, err := manifest.Open(c.cfg.OutputDir)
	if err != nil {
		return c.summary, fmt.Errorf("open corpus manifest: %w", err)
	}
	defer func() {
		if err := man.Close(); err != nil {
			c.logger.Warn("close manifest", "err", err)
		}
	}()

	// Counting doubles as an early archive-open check and sizes the
	// progress bar.
	total, err := mbox.CountMessages(c.cfg.MboxPath)
	if err != nil {
		return c.summary, fmt.Errorf("count mbox messages: %w", err)
	}

	c.logger.Info("starting conversion",
		"mbox", c.cfg.MboxPath,
		"output", c.cfg.OutputDir,
		"messages", total,
		"filterSocial", c.cfg.FilterSocial,
		"alreadyInCorpus", man.Len())

	bar := progress.New(total, c.cfg.LogLevel)

	walkErr := mbox.Read(c.cfg.MboxPath, func(env model.Envelope) error {
		c.handle(env, man, bar)
		return nil
	})

	bar.Stop()

	attrs := append(c.summary.LogAttrs(), "duration", time.Since(started))
	if walkErr != nil {
		c.logger.Error("conversion aborted", append(attrs, "err", walkErr)...)
		return c.summary, walkErr
	}

	c.logger.Info("conversion complete", attrs...)
	return c.summary, nil
}

func (c *Converter) handle(env model.Envelope, man *manifest.Manifest, bar *progress.Bar) {
	defer func() {
		if env.Message != nil {
			bar.Step(env.Message.Subject)
		} else {
			bar.Step("")
		}
	}()

	if env.Err != nil {
		c.summary.Errors++
		c.summary.LastError = env.Err
		c.logger.Warn("message unreadable", "err", env.Err)
		bar.Error(env.Err)
		return
	}

	msg := env.Message

	if c.cfg.FilterSocial {
		if keyword, noise := c.classifier.Match(msg.From); noise {
			c.summary.SkippedSocial++
			c.logger.Debug("skipped noise sender", "from", msg.From, "keyword", keyword)
			return
		}
	}

	body := extract.Body(msg.Entity)
	if body == "" {
		c.summary.SkippedNoBody++
		c.logger.Debug("skipped message without extractable body", "subject", msg.Subject)
		return
	}

	doc := document.FromMessage(msg, body)

	if existing, ok := man.Lookup(doc.Identifier); ok {
		if _, statErr := os.Stat(filepath.Join(c.cfg.OutputDir, existing)); statErr == nil {
			c.summary.Duplicates++
			c.logger.Debug("document already in corpus", "identifier", doc.Identifier, "filename", existing)
			return
		}
		// Manifest entry without a file: a previous run was
		// interrupted mid-write, so fill the gap.
	}

	path := filepath.Join(c.cfg.OutputDir, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Render()), 0o644); err != nil {
		c.summary.Errors++
		c.summary.LastError = err
		c.logger.Error("write document", "filename", doc.Filename, "err", err)
		bar.Error(err)
		return
	}

	if err := man.Add(doc.Identifier, doc.Filename); err != nil {
		// The document itself is on disk; a manifest write failure
		// only costs duplicate detection on the next run.
		c.logger.Warn("record manifest entry", "identifier", doc.Identifier, "err", err)
	}

	c.summary.Processed++
	if c.summary.Processed%c.cfg.ProgressEvery == 0 {
		c.logger.Info("conversion progress", "processed", c.summary.Processed, "seen", c.summary.Total())
	}
}
