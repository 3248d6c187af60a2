package dupe

import (
	"strings"
	"testing"
)

func TestAssembleReportRejectsUnknownRecord(t *testing.T) {
	records := []MediaRecord{{ID: "1"}, {ID: "2"}}
	clusters := []Cluster{
		{
			Members:    []string{"1", "9"},
			Pairs:      []PairMatch{{AID: "1", BID: "9", Confidence: 1.0}},
			Confidence: 1.0,
		},
	}

	_, err := assembleReport(records, clusters, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for pair referencing unknown record")
	}
	if !strings.Contains(err.Error(), `unknown record "9"`) {
		t.Errorf("error = %v, want unknown record mention", err)
	}
}

func TestAssembleReportEmpty(t *testing.T) {
	report, err := assembleReport([]MediaRecord{{ID: "1"}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("assembleReport: %v", err)
	}
	if report.ClustersFound != 0 || len(report.Clusters) != 0 {
		t.Errorf("report = %+v, want no clusters", report)
	}
	if report.RecordsScanned != 1 {
		t.Errorf("records scanned = %d, want 1", report.RecordsScanned)
	}
}

func TestBuildClustersDisjoint(t *testing.T) {
	pairs := []PairMatch{
		{AID: "a", BID: "b", Confidence: 0.9},
		{AID: "c", BID: "d", Confidence: 0.8},
		{AID: "b", BID: "e", Confidence: 0.7},
	}

	clusters := buildClusters(pairs)
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}

	seen := make(map[string]int)
	for i, cluster := range clusters {
		if len(cluster.Members) < 2 {
			t.Errorf("cluster %d has %d members, want >= 2", i, len(cluster.Members))
		}
		for _, member := range cluster.Members {
			if prev, dup := seen[member]; dup {
				t.Errorf("member %q appears in clusters %d and %d", member, prev, i)
			}
			seen[member] = i
		}
	}
}

func TestBuildClustersMinConfidence(t *testing.T) {
	pairs := []PairMatch{
		{AID: "a", BID: "b", Confidence: 1.0},
		{AID: "b", BID: "c", Confidence: 0.62},
	}

	clusters := buildClusters(pairs)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	if clusters[0].Confidence != 0.62 {
		t.Errorf("confidence = %v, want weakest edge 0.62", clusters[0].Confidence)
	}
}
