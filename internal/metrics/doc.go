// Package metrics provides allocation-free atomic counters for session
// lifecycle operations, exposed through point-in-time snapshots.
package metrics
