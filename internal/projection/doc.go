// Package projection expands expense records into monthly allocations and
// folds them into summaries, category matrices and filtered views.
//
// Every function here is pure: it takes the record collection as a
// parameter, never mutates it, and returns fresh values that are safe to
// share. Callers may run projections over one snapshot in parallel.
package projection
