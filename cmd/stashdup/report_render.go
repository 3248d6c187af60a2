package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stashdup/internal/dupe"
)

// renderReport prints the human-readable view of a scan pass: a summary
// line, then one table per cluster with the supporting signal evidence.
func renderReport(cmd *cobra.Command, report *dupe.Report, titles map[string]string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Pass %s scanned %d records in %s\n",
		report.PassID, report.RecordsScanned, report.Elapsed.Round(time.Millisecond))

	if len(report.Clusters) == 0 {
		fmt.Fprintln(out, "No duplicate clusters found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d cluster(s) covering %d matched pair(s)\n\n",
		report.ClustersFound, report.PairsFound)

	for i, cluster := range report.Clusters {
		fmt.Fprintf(out, "Cluster %d  confidence %s  (%d records)\n",
			i, formatConfidence(cluster.Confidence), len(cluster.Members))

		rows := make([][]string, 0, len(cluster.Members))
		for _, id := range cluster.Members {
			title := titles[id]
			if title == "" {
				title = "-"
			}
			rows = append(rows, []string{id, title})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Title"},
			rows,
			[]columnAlignment{alignRight, alignLeft},
		))

		pairRows := make([][]string, 0, len(cluster.Pairs))
		for _, pair := range cluster.Pairs {
			pairRows = append(pairRows, []string{
				pair.AID + " + " + pair.BID,
				formatConfidence(pair.Confidence),
				formatSignals(pair.Signals),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Pair", "Confidence", "Signals"},
			pairRows,
			[]columnAlignment{alignLeft, alignRight, alignLeft},
		))
		fmt.Fprintln(out)
	}
	return nil
}

func formatConfidence(value float64) string {
	return strconv.FormatFloat(value*100, 'f', 1, 64) + "%"
}

// formatSignals compacts the verdicts into "kind=score" fragments; signals
// that could not be evaluated on a pair are omitted.
func formatSignals(signals []dupe.SignalVerdict) string {
	parts := make([]string, 0, len(signals))
	for _, sig := range signals {
		if !sig.Evaluated {
			continue
		}
		marker := ""
		if sig.Matched {
			marker = "*"
		}
		parts = append(parts, fmt.Sprintf("%s%s=%.3f", sig.Kind, marker, sig.Score))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
