package dupe

import (
	"math/bits"
	"strconv"
	"strings"

	"stashdup/internal/textutil"
)

// phashBits is the bit width of the perceptual hashes Stash computes.
const phashBits = 64

// candidate caches the derived forms of a record that pairwise comparison
// needs, so the O(n^2) scan does not reparse hashes or refingerprint titles.
type candidate struct {
	rec     MediaRecord
	idSet   map[string]struct{}
	phash   uint64
	hasPH   bool
	titleFP *textutil.Fingerprint
}

func newCandidate(rec MediaRecord) candidate {
	c := candidate{rec: rec}
	if len(rec.StashIDs) > 0 {
		c.idSet = make(map[string]struct{}, len(rec.StashIDs))
		for _, id := range rec.StashIDs {
			id = strings.TrimSpace(id)
			if id != "" {
				c.idSet[id] = struct{}{}
			}
		}
	}
	if v, ok := parsePHash(rec.PHash); ok {
		c.phash = v
		c.hasPH = true
	}
	if strings.TrimSpace(rec.Title) != "" {
		c.titleFP = textutil.NewFingerprint(rec.Title)
	}
	return c
}

// comparable reports whether the record populates any signal at all.
// Records with no stash IDs, no hashes, and no usable title cannot match
// anything and are skipped before pairing.
func (c candidate) comparable() bool {
	return len(c.idSet) > 0 || c.hasPH || strings.TrimSpace(c.rec.OSHash) != "" || c.titleFP != nil
}

func parsePHash(raw string) (uint64, bool) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CompareIdentifiers matches two records when their stash ID sets intersect.
// An explicit cross-reference asserted by the backend is the highest-trust
// signal, so the score is always 1 or 0.
func CompareIdentifiers(a, b MediaRecord) SignalVerdict {
	return compareIdentifiers(newCandidate(a), newCandidate(b))
}

func compareIdentifiers(a, b candidate) SignalVerdict {
	if len(a.idSet) == 0 || len(b.idSet) == 0 {
		return notEvaluated(SignalIdentifier)
	}
	small, large := a.idSet, b.idSet
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return match(SignalIdentifier, 1.0)
		}
	}
	return noMatch(SignalIdentifier, 0)
}

// CompareOSHash matches two records when both carry a content hash and the
// digests are byte-identical. No partial credit.
func CompareOSHash(a, b MediaRecord) SignalVerdict {
	return compareOSHash(newCandidate(a), newCandidate(b))
}

func compareOSHash(a, b candidate) SignalVerdict {
	ah := strings.TrimSpace(a.rec.OSHash)
	bh := strings.TrimSpace(b.rec.OSHash)
	if ah == "" || bh == "" {
		return notEvaluated(SignalOSHash)
	}
	if strings.EqualFold(ah, bh) {
		return match(SignalOSHash, 1.0)
	}
	return noMatch(SignalOSHash, 0)
}

// ComparePHash scores two records by fractional Hamming distance over the
// 64-bit perceptual hash. The pair matches when the distance is at or below
// threshold; the score is 1 minus the distance. A missing or unparseable
// hash on either side means the signal is not evaluated.
func ComparePHash(a, b MediaRecord, threshold float64) SignalVerdict {
	return comparePHash(newCandidate(a), newCandidate(b), threshold)
}

func comparePHash(a, b candidate, threshold float64) SignalVerdict {
	if !a.hasPH || !b.hasPH {
		return notEvaluated(SignalPHash)
	}
	distance := float64(bits.OnesCount64(a.phash^b.phash)) / phashBits
	score := 1 - distance
	if distance <= threshold {
		return match(SignalPHash, score)
	}
	return noMatch(SignalPHash, score)
}

// CompareTitles normalizes both titles and scores them with token cosine
// similarity. An empty title on either side means the signal is not
// evaluated.
func CompareTitles(a, b MediaRecord, threshold float64) SignalVerdict {
	return compareTitles(newCandidate(a), newCandidate(b), threshold)
}

func compareTitles(a, b candidate, threshold float64) SignalVerdict {
	if a.titleFP == nil || b.titleFP == nil {
		return notEvaluated(SignalTitle)
	}
	score := textutil.CosineSimilarity(a.titleFP, b.titleFP)
	if score >= threshold {
		return match(SignalTitle, score)
	}
	return noMatch(SignalTitle, score)
}
