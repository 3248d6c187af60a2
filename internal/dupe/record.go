package dupe

import (
	"fmt"
	"strings"
)

// MediaRecord is an immutable snapshot of one scene for a scan pass.
// Hash fields hold the backend's precomputed fingerprints; an empty string
// means the fingerprint is absent. Duration is in seconds, zero when unknown,
// and is surfaced for reviewer context only -- it never creates a match.
type MediaRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	StashIDs []string `json:"stash_ids,omitempty"`
	PHash    string   `json:"phash,omitempty"`
	OSHash   string   `json:"oshash,omitempty"`
	Duration float64  `json:"duration,omitempty"`
}

// validateRecords rejects snapshots that violate the engine's input contract:
// every record needs a non-empty ID unique within the pass.
func validateRecords(records []MediaRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return fmt.Errorf("record at index %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("record id %q appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
