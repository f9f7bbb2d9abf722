// Package audit implements async event dispatching for session-lifecycle
// operations: sign-in, refresh, logout, and idle-timeout transitions.
package audit
