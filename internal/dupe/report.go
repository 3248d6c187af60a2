package dupe

import (
	"fmt"
	"sort"
	"time"
)

// Report is the final ordered result of one scan pass.
type Report struct {
	PassID         string        `json:"pass_id"`
	GeneratedAt    time.Time     `json:"generated_at"`
	RecordsScanned int           `json:"records_scanned"`
	ClustersFound  int           `json:"clusters_found"`
	PairsFound     int           `json:"pairs_found"`
	Elapsed        time.Duration `json:"elapsed"`
	Options        Options       `json:"options"`
	Clusters       []Cluster     `json:"clusters"`
}

// assembleReport orders clusters by descending confidence then by ascending
// lowest member id, and verifies the contract that every edge references a
// record from the scanned snapshot. A violation is a programming error and
// fails the whole pass.
func assembleReport(records []MediaRecord, clusters []Cluster, opts Options) (*Report, error) {
	known := make(map[string]struct{}, len(records))
	for _, rec := range records {
		known[rec.ID] = struct{}{}
	}
	pairCount := 0
	for _, cluster := range clusters {
		for _, pair := range cluster.Pairs {
			pairCount++
			for _, id := range []string{pair.AID, pair.BID} {
				if _, ok := known[id]; !ok {
					return nil, fmt.Errorf("pair %s/%s references unknown record %q", pair.AID, pair.BID, id)
				}
			}
		}
	}

	ordered := make([]Cluster, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].Members[0] < ordered[j].Members[0]
	})

	return &Report{
		RecordsScanned: len(records),
		ClustersFound:  len(ordered),
		PairsFound:     pairCount,
		Options:        opts,
		Clusters:       ordered,
	}, nil
}
