package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mbox-tools/mbox-to-corpus/classify"
)

// Config captures all command-line options required to run the converter.
type Config struct {
	MboxPath      string
	OutputDir     string
	FilterSocial  bool
	KeywordsFile  string
	Keywords      []string
	ProgressEvery int
	LogLevel      string
	LogDir        string
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("filter-social", false, "Skip messages whose From header matches a noise keyword")
	flags.String("keywords", "", "YAML file with noise keywords (extends the built-in list; replace: true swaps it)")
	flags.Int("progress-every", 500, "Log a progress line every N processed documents")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory for timestamped log files (logs to stdout only when empty)")
}

// Load converts the parsed Cobra flags and positional arguments into
// a validated Config. The keyword list is resolved here so the rest
// of the pipeline sees configuration as plain data.
func Load(cmd *cobra.Command, args []string) (Config, error) {
	// Emptiness must be checked on the raw arguments: filepath.Clean
	// turns "" into ".".
	if strings.TrimSpace(args[0]) == "" {
		return Config{}, fmt.Errorf("mbox path must not be empty")
	}
	if strings.TrimSpace(args[1]) == "" {
		return Config{}, fmt.Errorf("output directory must not be empty")
	}

	flags := cmd.Flags()

	filterSocial, err := flags.GetBool("filter-social")
	if err != nil {
		return Config{}, err
	}
	keywordsFile, err := flags.GetString("keywords")
	if err != nil {
		return Config{}, err
	}
	progressEvery, err := flags.GetInt("progress-every")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	keywords := classify.DefaultKeywords()
	if keywordsFile != "" {
		loaded, replace, err := LoadKeywords(keywordsFile)
		if err != nil {
			return Config{}, err
		}
		if replace {
			keywords = loaded
		} else {
			keywords = append(keywords, loaded...)
		}
	}

	cfg := Config{
		MboxPath:      args[0],
		OutputDir:     filepath.Clean(args[1]),
		FilterSocial:  filterSocial,
		KeywordsFile:  keywordsFile,
		Keywords:      keywords,
		ProgressEvery: progressEvery,
		LogLevel:      logLevel,
		LogDir:        logDir,
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.ProgressEvery <= 0 {
		return fmt.Errorf("--progress-every must be positive")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}

type keywordFile struct {
	Replace  bool     `yaml:"replace"`
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a YAML keyword file. The second return value
// reports whether the file asks to replace the built-in list instead
// of extending it.
func LoadKeywords(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read keywords file: %w", err)
	}

	var kf keywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, false, fmt.Errorf("parse keywords file %s: %w", path, err)
	}
	if kf.Replace && len(kf.Keywords) == 0 {
		return nil, false, fmt.Errorf("keywords file %s replaces the built-in list with nothing", path)
	}

	return kf.Keywords, kf.Replace, nil
}
