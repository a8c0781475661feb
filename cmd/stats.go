package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbox-tools/mbox-to-corpus/classify"
	"github.com/mbox-tools/mbox-to-corpus/config"
	"github.com/mbox-tools/mbox-to-corpus/mbox"
	"github.com/mbox-tools/mbox-to-corpus/model"
	"github.com/mbox-tools/mbox-to-corpus/stats"
)

var (
	reportDir         string
	topN              int
	statsKeywordsFile string
)

var corpusStatsCmd = &cobra.Command{
	Use:   "corpus-stats [mbox file]",
	Short: "Analyse the mbox file and preview what a filtered conversion would keep",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mboxPath := args[0]

		fmt.Println("Analyzing mbox file:", mboxPath)

		keywords := classify.DefaultKeywords()
		if statsKeywordsFile != "" {
			loaded, replace, err := config.LoadKeywords(statsKeywordsFile)
			if err != nil {
				return err
			}
			if replace {
				keywords = loaded
			} else {
				keywords = append(keywords, loaded...)
			}
		}
		classifier := classify.New(keywords)

		headersToTrack := []string{"From", "To", "Subject"}
		counter := make(map[string]map[string]int)
		for _, h := range headersToTrack {
			counter[h] = make(map[string]int)
		}
		keywordHits := make(map[string]int)

		messageCount := 0
		noiseCount := 0
		errorCount := 0

		printStats := func() {
			// ANSI escape code to clear screen and move cursor to top-left
			fmt.Print("\033[H\033[2J")
			fmt.Printf("%s\n\n", scanSummaryLine(messageCount, noiseCount, errorCount))

			if len(keywordHits) > 0 {
				fmt.Println("Noise keyword hits:")
				printKeywordHits(keywordHits)
				fmt.Println()
			}

			for _, header := range headersToTrack {
				fmt.Printf("Top %d %s:\n", topN, header)
				stats.PrettyPrintTop(counter[header], topN)
				fmt.Println()
			}
		}

		err := mbox.Read(mboxPath, func(env model.Envelope) error {
			if env.Err != nil {
				errorCount++
				return nil
			}
			msg := env.Message

			if keyword, noise := classifier.Match(msg.From); noise {
				keywordHits[keyword]++
				noiseCount++
				return nil
			}

			messageCount++
			values := map[string]string{
				"From":    msg.From,
				"To":      msg.To,
				"Subject": msg.Subject,
			}
			for _, header := range headersToTrack {
				if v := values[header]; v != "" {
					counter[header][v]++
				}
			}

			if messageCount%250 == 0 {
				printStats()
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error reading mbox file: %w", err)
		}

		// Final print
		printStats()

		if err := saveCSVReports(counter, headersToTrack, keywordHits, reportDir, 1000); err != nil {
			return fmt.Errorf("error saving CSV reports: %w", err)
		}

		fmt.Printf("\nReports saved to directory: %s\n", reportDir)

		return nil
	},
}

func init() {
	corpusStatsCmd.Flags().StringVarP(&reportDir, "output", "o", ".", "Output directory for CSV reports")
	corpusStatsCmd.Flags().IntVarP(&topN, "top", "t", 10, "Number of top items to display in statistics")
	corpusStatsCmd.Flags().StringVar(&statsKeywordsFile, "keywords", "", "YAML file with noise keywords (extends the built-in list)")
	rootCmd.AddCommand(corpusStatsCmd)
}

// scanSummaryLine reports scan progress. Unreadable messages count
// towards the scanned total: the scanner saw them even though no
// headers could be extracted.
func scanSummaryLine(messageCount, noiseCount, errorCount int) string {
	total := messageCount + noiseCount + errorCount
	var noisePercent float64
	if total > 0 {
		noisePercent = float64(noiseCount) / float64(total) * 100
	}
	return fmt.Sprintf("Scanned %d messages (%d noise senders, %.2f%%, %d unreadable)...",
		total, noiseCount, noisePercent, errorCount)
}

func saveCSVReports(counter map[string]map[string]int, headers []string, keywordHits map[string]int, dir string, limit int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, header := range headers {
		filename := fmt.Sprintf("report_%s.csv", normalizeHeaderName(header))
		if err := writeCountsCSV(filepath.Join(dir, filename), counter[header], limit); err != nil {
			return err
		}
	}

	if len(keywordHits) > 0 {
		if err := writeCountsCSV(filepath.Join(dir, "report_noise_keywords.csv"), keywordHits, limit); err != nil {
			return err
		}
	}

	return nil
}

func writeCountsCSV(path string, counts map[string]int, limit int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Value", "Count"}); err != nil {
		return err
	}

	type pair struct {
		Key   string
		Value int
	}
	var pairs []pair
	for k, v := range counts {
		pairs = append(pairs, pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Value > pairs[j].Value
	})

	for i := 0; i < limit && i < len(pairs); i++ {
		record := []string{pairs[i].Key, strconv.Itoa(pairs[i].Value)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func normalizeHeaderName(header string) string {
	name := strings.ToLower(header)
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

func printKeywordHits(hits map[string]int) {
	type pair struct {
		Keyword string
		Count   int
	}
	var pairs []pair
	for kw, count := range hits {
		pairs = append(pairs, pair{kw, count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Keyword < pairs[j].Keyword
	})

	for _, p := range pairs {
		fmt.Printf("  %s: %d hits\n", p.Keyword, p.Count)
	}
}
