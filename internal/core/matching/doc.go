// Package matching maps workout intervals onto catalog tracks.
//
// Two selectors are provided. SelectGreedy walks the intervals in order and
// takes the best unused track for each one. SelectGraph admits the top-N
// tracks per interval into a layer, connects adjacent layers with
// track-to-track transition costs and returns the cheapest source-to-sink
// path through the layers.
//
// All functions are pure with respect to the catalog: it is only read, and
// all working state is local to one call.
package matching
