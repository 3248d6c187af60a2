package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stashdup/internal/dupe"
	"stashdup/internal/scanstore"
	"stashdup/internal/stash"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput     bool
		inputPath      string
		noSave         bool
		phashThreshold float64
		titleThreshold float64
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a duplicate scan pass",
		Long: `Fetch every record from the configured Stash instance, evaluate all
pairs against the similarity signals, and print the resulting duplicate
report. With --input the snapshot is read from a JSON file instead of the
live backend, which is useful for offline review of an exported library.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.matchOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("phash-threshold") {
				opts.PHashDistanceThreshold = phashThreshold
			}
			if cmd.Flags().Changed("title-threshold") {
				opts.TitleSimilarityThreshold = titleThreshold
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}

			var (
				records []dupe.MediaRecord
				titles  map[string]string
			)
			if strings.TrimSpace(inputPath) != "" {
				records, err = readSnapshot(inputPath)
				if err != nil {
					return err
				}
			} else {
				client, err := ctx.stashClient()
				if err != nil {
					return err
				}
				scenes, err := client.FetchScenes(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch scenes: %w", err)
				}
				records = stash.Records(scenes)
			}
			titles = make(map[string]string, len(records))
			for _, rec := range records {
				if rec.Title != "" {
					titles[rec.ID] = rec.Title
				}
			}

			report, err := dupe.Scan(cmd.Context(), records, opts)
			if err != nil {
				return err
			}

			if !noSave {
				if err := ctx.withStore(func(store *scanstore.Store) error {
					return store.SaveReport(cmd.Context(), report)
				}); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			return renderReport(cmd, report, titles)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full report as JSON")
	cmd.Flags().StringVar(&inputPath, "input", "", "Read the record snapshot from a JSON file instead of Stash")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip recording the pass in history")
	cmd.Flags().Float64Var(&phashThreshold, "phash-threshold", 0, "Maximum fractional phash Hamming distance counted as a match")
	cmd.Flags().Float64Var(&titleThreshold, "title-threshold", 0, "Minimum title similarity ratio counted as a match")
	cmd.Flags().IntVar(&workers, "workers", 0, "Pair evaluation workers (0 selects GOMAXPROCS)")

	return cmd
}

func readSnapshot(path string) ([]dupe.MediaRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var records []dupe.MediaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return records, nil
}
