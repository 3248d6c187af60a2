// Package stash wraps the Stash GraphQL API.
//
// The client fetches the full scene collection for a scan pass and relays
// the human-triggered merge action back to the backend. All network
// concerns live here: authentication headers, timeouts, retry with backoff
// on transient failures, and GraphQL error unwrapping. The matching engine
// only ever sees the finite record snapshot this package hands it.
package stash
