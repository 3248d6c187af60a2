package stash

import (
	"context"
	"errors"
	"strings"
)

const sceneMergeMutation = `
mutation SceneMerge($input: SceneMergeInput!) {
  sceneMerge(input: $input) {
    id
  }
}
`

type sceneMergeResult struct {
	SceneMerge struct {
		ID string `json:"id"`
	} `json:"sceneMerge"`
}

// MergeScenes merges the source scenes into the destination scene on the
// backend and returns the surviving scene id. This is a human-triggered
// action relayed verbatim; the matching engine never calls it.
func (c *Client) MergeScenes(ctx context.Context, destination string, sources []string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", errors.New("stash merge: destination scene id required")
	}
	cleaned := make([]string, 0, len(sources))
	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" || src == destination {
			continue
		}
		cleaned = append(cleaned, src)
	}
	if len(cleaned) == 0 {
		return "", errors.New("stash merge: at least one source scene id required")
	}

	variables := map[string]any{
		"input": map[string]any{
			"destination": destination,
			"source":      cleaned,
		},
	}
	var result sceneMergeResult
	if err := c.execute(ctx, "stash merge scenes", sceneMergeMutation, variables, &result); err != nil {
		return "", err
	}
	return result.SceneMerge.ID, nil
}
