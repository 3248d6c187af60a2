package dupe

const (
	defaultPHashDistanceThreshold   = 0.10
	defaultTitleSimilarityThreshold = 0.85
)

// Options carries the matching thresholds and pass tuning supplied by the
// configuration layer. Values arrive already validated; Scan still clamps
// nonsense back to defaults so the engine stays total.
type Options struct {
	// PHashDistanceThreshold is the maximum fractional Hamming distance at
	// which two perceptual hashes still count as a match.
	PHashDistanceThreshold float64
	// TitleSimilarityThreshold is the minimum normalized title similarity
	// ratio that counts as a match.
	TitleSimilarityThreshold float64
	// IdentifierDominant pins pair confidence to 1.0 whenever the identifier
	// signal matches, regardless of what the other signals report.
	IdentifierDominant bool
	// Workers bounds the pair-evaluation pool. Zero selects GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the conservative defaults documented in the sample
// configuration.
func DefaultOptions() Options {
	return Options{
		PHashDistanceThreshold:   defaultPHashDistanceThreshold,
		TitleSimilarityThreshold: defaultTitleSimilarityThreshold,
		IdentifierDominant:       true,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.PHashDistanceThreshold < 0 || o.PHashDistanceThreshold > 1 {
		o.PHashDistanceThreshold = d.PHashDistanceThreshold
	}
	if o.TitleSimilarityThreshold < 0 || o.TitleSimilarityThreshold > 1 {
		o.TitleSimilarityThreshold = d.TitleSimilarityThreshold
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	return o
}
