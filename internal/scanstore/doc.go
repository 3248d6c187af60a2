// Package scanstore persists scan-pass history in SQLite.
//
// Each completed pass is stored as one row: the pass metadata, the
// thresholds that were in effect, and the full report as JSON. The store
// backs the history command and the dashboard's recent-pass list; the
// matching engine itself never touches it.
package scanstore
