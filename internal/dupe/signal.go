package dupe

// SignalKind identifies one of the fixed similarity signals.
type SignalKind string

const (
	SignalIdentifier SignalKind = "identifier"
	SignalOSHash     SignalKind = "oshash"
	SignalPHash      SignalKind = "phash"
	SignalTitle      SignalKind = "title"
)

// signalRank fixes a tie-break order for signals with equal scores:
// exact authoritative signals sort ahead of fuzzy ones.
func signalRank(kind SignalKind) int {
	switch kind {
	case SignalIdentifier:
		return 0
	case SignalOSHash:
		return 1
	case SignalPHash:
		return 2
	case SignalTitle:
		return 3
	default:
		return 4
	}
}

// SignalVerdict is the outcome of one comparator on one record pair.
// Evaluated distinguishes "compared and differed" from "not comparable":
// a comparator missing data on either side reports Evaluated=false, which is
// never an error and never counts as a confirmed non-match.
type SignalVerdict struct {
	Kind      SignalKind `json:"kind"`
	Evaluated bool       `json:"evaluated"`
	Matched   bool       `json:"matched"`
	Score     float64    `json:"score"`
}

func notEvaluated(kind SignalKind) SignalVerdict {
	return SignalVerdict{Kind: kind}
}

func noMatch(kind SignalKind, score float64) SignalVerdict {
	return SignalVerdict{Kind: kind, Evaluated: true, Score: score}
}

func match(kind SignalKind, score float64) SignalVerdict {
	return SignalVerdict{Kind: kind, Evaluated: true, Matched: true, Score: score}
}
