package dupe

import "testing"

func TestEvaluatePairIdentifierDominates(t *testing.T) {
	// Shared stash id with wildly disagreeing titles and hashes: the
	// identifier signal pins confidence to 1.0.
	a := newCandidate(MediaRecord{
		ID:       "10",
		Title:    "Completely Unrelated Name",
		StashIDs: []string{"shared"},
		PHash:    "0000000000000000",
	})
	b := newCandidate(MediaRecord{
		ID:       "11",
		Title:    "Something Else Entirely",
		StashIDs: []string{"shared"},
		PHash:    "ffffffffffffffff",
	})

	pair, ok := evaluatePair(a, b, DefaultOptions())
	if !ok {
		t.Fatal("expected a pair match")
	}
	if pair.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", pair.Confidence)
	}
	if pair.AID != "10" || pair.BID != "11" {
		t.Errorf("pair ids = %s/%s, want 10/11", pair.AID, pair.BID)
	}
	if len(pair.Signals) == 0 || pair.Signals[0].Kind != SignalIdentifier {
		t.Errorf("signals = %+v, want identifier first", pair.Signals)
	}
}

func TestEvaluatePairCanonicalOrdering(t *testing.T) {
	a := newCandidate(MediaRecord{ID: "zz", OSHash: "deadbeef01234567"})
	b := newCandidate(MediaRecord{ID: "aa", OSHash: "deadbeef01234567"})

	pair, ok := evaluatePair(a, b, DefaultOptions())
	if !ok {
		t.Fatal("expected a pair match")
	}
	if pair.AID != "aa" || pair.BID != "zz" {
		t.Errorf("pair ids = %s/%s, want aa/zz", pair.AID, pair.BID)
	}
}

func TestEvaluatePairContentHashAloneDecisive(t *testing.T) {
	a := newCandidate(MediaRecord{ID: "1", Title: "First Title", OSHash: "deadbeef01234567"})
	b := newCandidate(MediaRecord{ID: "2", Title: "Second Title", OSHash: "deadbeef01234567"})

	pair, ok := evaluatePair(a, b, DefaultOptions())
	if !ok {
		t.Fatal("expected a pair match")
	}
	if pair.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", pair.Confidence)
	}
	if len(pair.Signals) != 1 || pair.Signals[0].Kind != SignalOSHash {
		t.Errorf("signals = %+v, want oshash only", pair.Signals)
	}
}

func TestEvaluatePairExactSignalsShortCircuit(t *testing.T) {
	// Identical phash and title, but the content hash already matched:
	// fuzzy comparators are skipped entirely.
	a := newCandidate(MediaRecord{ID: "1", Title: "Same Title", OSHash: "deadbeef01234567", PHash: "cafef00dcafef00d"})
	b := newCandidate(MediaRecord{ID: "2", Title: "Same Title", OSHash: "deadbeef01234567", PHash: "cafef00dcafef00d"})

	pair, ok := evaluatePair(a, b, DefaultOptions())
	if !ok {
		t.Fatal("expected a pair match")
	}
	for _, sig := range pair.Signals {
		if sig.Kind == SignalPHash || sig.Kind == SignalTitle {
			t.Errorf("fuzzy signal %q evaluated despite exact short-circuit", sig.Kind)
		}
	}
}

func TestEvaluatePairNoSignals(t *testing.T) {
	a := newCandidate(MediaRecord{ID: "1"})
	b := newCandidate(MediaRecord{ID: "2", Title: "Has A Title"})

	if _, ok := evaluatePair(a, b, DefaultOptions()); ok {
		t.Error("expected no pair when no signal can match")
	}
}

func TestEvaluatePairSignalsSortedByScore(t *testing.T) {
	opts := DefaultOptions()
	opts.TitleSimilarityThreshold = 0.5

	// phash differs by one bit (score 63/64); titles overlap partially.
	a := newCandidate(MediaRecord{ID: "1", Title: "sunset beach picnic", PHash: "0000000000000000"})
	b := newCandidate(MediaRecord{ID: "2", Title: "sunset beach evening", PHash: "0000000000000001"})

	pair, ok := evaluatePair(a, b, opts)
	if !ok {
		t.Fatal("expected a pair match")
	}
	if len(pair.Signals) != 2 {
		t.Fatalf("signals = %+v, want 2", pair.Signals)
	}
	if pair.Signals[0].Score < pair.Signals[1].Score {
		t.Errorf("signals not sorted by descending score: %+v", pair.Signals)
	}
	if pair.Confidence != pair.Signals[0].Score {
		t.Errorf("confidence = %v, want max matched score %v", pair.Confidence, pair.Signals[0].Score)
	}
}
