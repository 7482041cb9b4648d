//go:build race

package pipe

// The race detector slows the stress tests by an order of magnitude, so they
// run a reduced frame count under it.
const raceEnabled = true
