package cmd

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbox-tools/mbox-to-corpus/naming"
)

var bundleLabel string

var bundleCmd = &cobra.Command{
	Use:   "bundle [corpus dir] [zip file]",
	Short: "Package a converted corpus into a single zip for hand-off",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusDir := args[0]
		zipPath := args[1]

		count, err := bundleCorpus(corpusDir, zipPath, bundleLabel)
		if err != nil {
			return err
		}

		fmt.Printf("Bundled %d documents into %s\n", count, zipPath)
		return nil
	},
}

func init() {
	bundleCmd.Flags().StringVar(&bundleLabel, "label", "corpus", "Label used as the folder name inside the archive")
	rootCmd.AddCommand(bundleCmd)
}

// bundleCorpus zips every document of a corpus directory under a
// sanitized, timestamped folder name. The manifest and anything that
// is not a corpus document are left out.
func bundleCorpus(corpusDir, zipPath, label string) (int, error) {
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return 0, fmt.Errorf("read corpus directory: %w", err)
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("create bundle: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	prefix := naming.CleanComponent(label, 30) + "_" + time.Now().Format("20060102_150405")

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), naming.Extension) {
			continue
		}

		if err := addToBundle(zw, corpusDir, prefix, entry.Name()); err != nil {
			_ = zw.Close()
			return count, err
		}
		count++
	}

	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("finalize bundle: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("no documents found in %s", corpusDir)
	}
	return count, nil
}

func addToBundle(zw *zip.Writer, dir, prefix, name string) error {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("open document %s: %w", name, err)
	}
	defer file.Close()

	w, err := zw.Create(prefix + "/" + name)
	if err != nil {
		return fmt.Errorf("add document %s: %w", name, err)
	}
	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("write document %s: %w", name, err)
	}
	return nil
}
