// Package textutil provides text normalization and similarity helpers used by
// the duplicate-matching engine.
//
// Titles coming back from a Stash backend are noisy: inconsistent casing,
// punctuation, release-group decorations, and stray whitespace. Normalize
// reduces a title to a canonical lowercase token stream, and Similarity scores
// two titles with cosine similarity over term-frequency fingerprints. Scores
// are in [0, 1] where 1 means the normalized titles are identical.
package textutil
