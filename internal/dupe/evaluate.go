package dupe

import "sort"

// PairMatch is the combined verdict for one record pair. The pair is stored
// in canonical order (AID < BID) so the same pair can never appear twice.
// Signals holds every matched verdict, sorted by descending score, so the
// report can explain why the pair was flagged.
type PairMatch struct {
	AID        string          `json:"a_id"`
	BID        string          `json:"b_id"`
	Signals    []SignalVerdict `json:"signals"`
	Confidence float64         `json:"confidence"`
}

// evaluatePair runs the comparators over one pair and decides whether it
// becomes an edge. Cheap exact signals run first: when identifiers or content
// hashes already prove the pair at confidence 1.0, the costlier perceptual
// and title comparisons are skipped.
func evaluatePair(a, b candidate, opts Options) (PairMatch, bool) {
	matched := make([]SignalVerdict, 0, 4)

	identifier := compareIdentifiers(a, b)
	if identifier.Matched {
		matched = append(matched, identifier)
	}
	oshash := compareOSHash(a, b)
	if oshash.Matched {
		matched = append(matched, oshash)
	}

	// Exact signals are decisive at score 1.0; only fall through to the
	// fuzzy comparators when neither fired.
	if len(matched) == 0 {
		if phash := comparePHash(a, b, opts.PHashDistanceThreshold); phash.Matched {
			matched = append(matched, phash)
		}
		if title := compareTitles(a, b, opts.TitleSimilarityThreshold); title.Matched {
			matched = append(matched, title)
		}
	}

	if len(matched) == 0 {
		return PairMatch{}, false
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return signalRank(matched[i].Kind) < signalRank(matched[j].Kind)
	})

	confidence := matched[0].Score
	if opts.IdentifierDominant && identifier.Matched {
		confidence = 1.0
	}

	aid, bid := a.rec.ID, b.rec.ID
	if bid < aid {
		aid, bid = bid, aid
	}
	return PairMatch{
		AID:        aid,
		BID:        bid,
		Signals:    matched,
		Confidence: confidence,
	}, true
}
