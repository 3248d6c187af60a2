package stash

import (
	"context"
	"strings"

	"stashdup/internal/dupe"
)

// findScenesQuery requests every scene in one page; per_page -1 is Stash's
// "no limit" convention.
const findScenesQuery = `
query FindAllScenes {
  findScenes(filter: { per_page: -1 }) {
    count
    scenes {
      id
      title
      stash_ids {
        stash_id
      }
      files {
        size
        basename
        path
        duration
        fingerprints {
          type
          value
        }
      }
    }
  }
}
`

// Fingerprint is one precomputed file digest as Stash reports it.
type Fingerprint struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SceneFile is the per-file metadata attached to a scene.
type SceneFile struct {
	Size         int64         `json:"size"`
	Basename     string        `json:"basename"`
	Path         string        `json:"path"`
	Duration     float64       `json:"duration"`
	Fingerprints []Fingerprint `json:"fingerprints"`
}

// SceneStashID is an external catalog cross-reference asserted by Stash.
type SceneStashID struct {
	StashID string `json:"stash_id"`
}

// Scene is one media record as returned by findScenes.
type Scene struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	StashIDs []SceneStashID `json:"stash_ids"`
	Files    []SceneFile    `json:"files"`
}

type findScenesResult struct {
	FindScenes struct {
		Count  int     `json:"count"`
		Scenes []Scene `json:"scenes"`
	} `json:"findScenes"`
}

// FetchScenes retrieves the complete scene collection for a scan pass.
func (c *Client) FetchScenes(ctx context.Context) ([]Scene, error) {
	var result findScenesResult
	if err := c.execute(ctx, "stash fetch scenes", findScenesQuery, nil, &result); err != nil {
		return nil, err
	}
	return result.FindScenes.Scenes, nil
}

// Record maps a scene onto the engine's snapshot type. The first file
// supplies the duration; hashes are taken from the first file that carries
// each fingerprint type.
func (s Scene) Record() dupe.MediaRecord {
	rec := dupe.MediaRecord{
		ID:    s.ID,
		Title: s.Title,
	}
	for _, sid := range s.StashIDs {
		if id := strings.TrimSpace(sid.StashID); id != "" {
			rec.StashIDs = append(rec.StashIDs, id)
		}
	}
	for _, file := range s.Files {
		if rec.Duration == 0 && file.Duration > 0 {
			rec.Duration = file.Duration
		}
		for _, fp := range file.Fingerprints {
			value := strings.TrimSpace(fp.Value)
			if value == "" {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(fp.Type)) {
			case "oshash":
				if rec.OSHash == "" {
					rec.OSHash = value
				}
			case "phash":
				if rec.PHash == "" {
					rec.PHash = value
				}
			}
		}
	}
	return rec
}

// Records converts a fetched scene collection into an engine snapshot.
func Records(scenes []Scene) []dupe.MediaRecord {
	records := make([]dupe.MediaRecord, 0, len(scenes))
	for _, scene := range scenes {
		records = append(records, scene.Record())
	}
	return records
}
