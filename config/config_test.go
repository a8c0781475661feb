package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	RegisterFlags(cmd)
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newTestCmd(), []string{"archive.mbox", "out"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MboxPath != "archive.mbox" || cfg.OutputDir != "out" {
		t.Errorf("positional args = %q, %q", cfg.MboxPath, cfg.OutputDir)
	}
	if cfg.FilterSocial {
		t.Error("FilterSocial should default to false")
	}
	if cfg.ProgressEvery != 500 {
		t.Errorf("ProgressEvery = %d, want 500", cfg.ProgressEvery)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.Keywords) == 0 {
		t.Error("Keywords should default to the built-in list")
	}
}

func TestLoad_EmptyPositionalArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"empty mbox path", []string{"", "out"}},
		{"empty output dir", []string{"a.mbox", ""}},
		{"blank output dir", []string{"a.mbox", "  "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(newTestCmd(), tc.args); err == nil {
				t.Errorf("Load(%q) accepted an empty argument", tc.args)
			}
		})
	}
}

func TestLoad_NormalizesWarning(t *testing.T) {
	cmd := newTestCmd()
	if err := cmd.Flags().Set("log-level", "WARNING"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cmd, []string{"a.mbox", "out"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	cmd := newTestCmd()
	if err := cmd.Flags().Set("log-level", "verbose"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cmd, []string{"a.mbox", "out"}); err == nil {
		t.Error("Load() accepted an invalid log level")
	}
}

func TestLoadKeywords_Extends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "keywords:\n  - acme-deals.example\n  - megamart\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	keywords, replace, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}
	if replace {
		t.Error("replace = true, want false by default")
	}
	if len(keywords) != 2 || keywords[0] != "acme-deals.example" {
		t.Errorf("keywords = %v", keywords)
	}
}

func TestLoadKeywords_Replace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "replace: true\nkeywords:\n  - only-this.example\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd()
	if err := cmd.Flags().Set("keywords", path); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cmd, []string{"a.mbox", "out"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "only-this.example" {
		t.Errorf("Keywords = %v, want the replacement list only", cfg.Keywords)
	}
}

func TestLoadKeywords_EmptyReplaceRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("replace: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadKeywords(path); err == nil {
		t.Error("LoadKeywords() accepted replace:true with no keywords")
	}
}
