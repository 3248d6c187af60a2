// Package dashboard serves the web view of the duplicate finder: a landing
// page with the library record count and recent pass history, a duplicates
// page that runs a scan pass and renders the resulting report, and a merge
// action that relays the operator's choice back to Stash.
package dashboard
