// Package prometheus renders session-manager metrics in Prometheus text
// exposition format without pulling in a client library: the counter set is
// small, fixed, and label-free, so the exposition format is written directly.
package prometheus
