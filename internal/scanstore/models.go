package scanstore

import "time"

// PassSummary is the lightweight row shown in pass listings.
type PassSummary struct {
	PassID         string
	GeneratedAt    time.Time
	RecordsScanned int
	ClustersFound  int
	PairsFound     int
	Elapsed        time.Duration
}
