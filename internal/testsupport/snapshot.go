package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stashdup/internal/dupe"
)

// DuplicateRecords returns a small snapshot containing one obvious duplicate
// pair (shared oshash) plus an unrelated record.
func DuplicateRecords() []dupe.MediaRecord {
	return []dupe.MediaRecord{
		{ID: "1", Title: "Sunset Drive", OSHash: "f00dd00d8badf00d", Duration: 1800},
		{ID: "2", Title: "Sunset Drive (copy)", OSHash: "f00dd00d8badf00d", Duration: 1800},
		{ID: "3", Title: "Harbor Lights", OSHash: "1122334455667788", Duration: 900},
	}
}

// WriteSnapshot serializes records to a JSON file for offline scan input.
func WriteSnapshot(t testing.TB, path string, records []dupe.MediaRecord) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
