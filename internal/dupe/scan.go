package dupe

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scan runs one complete duplicate-matching pass over the supplied snapshot.
// The snapshot is never mutated. Cancelling the context aborts the whole
// pass with the context error; a partial report is never returned.
func Scan(ctx context.Context, records []MediaRecord, opts Options) (*Report, error) {
	started := time.Now()
	opts = opts.normalized()

	if err := validateRecords(records); err != nil {
		return nil, fmt.Errorf("invalid record snapshot: %w", err)
	}

	pairs, err := evaluateAllPairs(ctx, prepareCandidates(records), opts)
	if err != nil {
		return nil, err
	}

	report, err := assembleReport(records, buildClusters(pairs), opts)
	if err != nil {
		return nil, err
	}
	report.PassID = uuid.NewString()
	report.GeneratedAt = started.UTC()
	report.Elapsed = time.Since(started)
	return report, nil
}

// prepareCandidates derives the cached comparison forms once per record and
// drops records that populate no comparable signal. Candidates are sorted by
// id so pair generation never depends on input order.
func prepareCandidates(records []MediaRecord) []candidate {
	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		c := newCandidate(rec)
		if c.comparable() {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].rec.ID < candidates[j].rec.ID
	})
	return candidates
}

// evaluateAllPairs fans row evaluation out across a bounded worker pool and
// merges the collected edges single-threaded. The merge sorts edges into
// canonical order, so the parallel collection order never leaks into
// clustering.
func evaluateAllPairs(ctx context.Context, candidates []candidate, opts Options) ([]PairMatch, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int)
	results := make(chan []PairMatch, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var edges []PairMatch
			for i := range rows {
				for j := i + 1; j < len(candidates); j++ {
					if pair, ok := evaluatePair(candidates[i], candidates[j], opts); ok {
						edges = append(edges, pair)
					}
				}
			}
			results <- edges
		}()
	}

	go func() {
		defer close(rows)
		for i := 0; i < len(candidates); i++ {
			select {
			case rows <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var pairs []PairMatch
	for edges := range results {
		pairs = append(pairs, edges...)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan pass aborted: %w", err)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].AID != pairs[j].AID {
			return pairs[i].AID < pairs[j].AID
		}
		return pairs[i].BID < pairs[j].BID
	})
	return pairs, nil
}
