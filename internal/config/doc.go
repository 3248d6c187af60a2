// Package config loads and validates stashdup's TOML configuration.
//
// Configuration is the boundary where thresholds are checked: values outside
// [0, 1] are rejected here so the matching engine never sees a misconfigured
// threshold. The engine itself receives plain values at pass start and never
// reads or writes configuration.
package config
