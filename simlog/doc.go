// Package simlog turns the flat event logs written by the data-management
// simulator into in-memory time series.
//
// # Reading Guide
//
//   - decode.go: tokenizer and the transfer-manager / sim-traffic decoders
//   - billing.go: two-phase billing decoder (header until `body`, then the body)
//   - demux.go: routes decoded events into named series
//   - bucket.go: fixed-width interval aggregation (cumulative, sum, count)
//   - align.go: reference-traffic parser and the sim/reference aligner
//
// Every operation is a pure function over a fully read input. Timestamps are
// kept as raw integer ticks; unit scaling is left to the caller, except for
// the reference traffic log whose millisecond stamps are normalized to
// seconds during alignment.
//
// The sink (plotting, exporting) lives outside this package; see
// simlog/export for the CSV/YAML sink used by the CLI.
package simlog
