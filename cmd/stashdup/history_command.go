package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stashdup/internal/scanstore"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scan passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *scanstore.Store) error {
				passes, err := store.RecentPasses(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, passes)
				}
				if len(passes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scan passes recorded")
					return nil
				}

				rows := make([][]string, 0, len(passes))
				for _, pass := range passes {
					rows = append(rows, []string{
						pass.PassID,
						pass.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
						strconv.Itoa(pass.RecordsScanned),
						strconv.Itoa(pass.ClustersFound),
						strconv.Itoa(pass.PairsFound),
						pass.Elapsed.Round(time.Millisecond).String(),
					})
				}
				table := renderTable(
					[]string{"Pass", "Generated", "Records", "Clusters", "Pairs", "Elapsed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of passes to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit pass summaries as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <pass-id>",
		Short: "Show one recorded scan pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *scanstore.Store) error {
				report, err := store.GetReport(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, scanstore.ErrNotFound) {
						return fmt.Errorf("scan pass %q not found", args[0])
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, report)
				}
				return renderReport(cmd, report, nil)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full report as JSON")
	return cmd
}
