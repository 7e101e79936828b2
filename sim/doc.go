// Package sim replays recorded I/O completion traces against adaptive
// polling-sleep strategies.
//
// # Reading Guide
//
//   - event.go: IOEvent and Trace, the ordered input to every replay
//   - config.go: Algorithm and SimulationConfig, one point of the search grid
//   - simulator.go: Simulate, the per-configuration replay loop
//   - metrics.go: SimulationResult and the ratio helpers
//
// # Architecture
//
// Simulate is a pure function of (Trace, SimulationConfig). All replay state
// lives in a value local to the call, so one Trace may be shared read-only by
// any number of concurrent simulations. Sub-packages build on it:
//   - sim/trace/: per-core trace logs (load, merge, summarize)
//   - sim/search/: grid enumeration, parallel dispatch and selection
//   - sim/report/: text, JSON, CSV and Prometheus textfile output
package sim
