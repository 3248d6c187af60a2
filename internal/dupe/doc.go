// Package dupe implements the duplicate-matching engine.
//
// A scan pass takes an immutable snapshot of media records fetched from the
// Stash backend and compares every pair under four independent signals:
// shared stash IDs, perceptual-hash distance, content-hash equality, and
// normalized title similarity. Pairs where at least one signal matches become
// edges; connected components over those edges become duplicate clusters; the
// report assembler orders clusters and pairs deterministically for review.
//
// The engine is pure computation: it performs no I/O, never mutates its
// input, and given the same records and options always produces the same
// clusters regardless of input order. Pair evaluation fans out across a
// bounded worker pool, but clustering waits for the complete edge set before
// running, so a pass either yields a full report or an error, never a
// partial result.
//
// Signals that cannot be evaluated (a missing hash, an empty title) are
// recorded as not evaluated, which the report keeps distinct from a signal
// that was compared and differed.
package dupe
