// Package logiscore owns the client-side authentication and session
// lifecycle for the LogiScore freight-forwarder review platform: login and
// registration (password and email-code flows), bearer-token refresh with a
// local expiry check, an inactivity timeout state machine, and a durable
// session mirror that lets a restarted process rehydrate before any network
// call completes.
//
// The [Manager] is the single source of truth for "is the caller
// authenticated, and with what identity". It reconciles three potentially
// divergent views (in-memory state, durable storage, and the backend's
// opinion expressed through 401 responses) and is constructed explicitly
// through [Builder.Build] rather than living in package-level mutable state.
// Manager methods are safe to call from multiple goroutines.
//
// # Failure semantics
//
// HTTP-level rejections and transport-level failures are never conflated.
// A request that produced no HTTP response (DNS failure, connection reset,
// timeout) is recoverable: it must not clear a cached session, because a
// flaky network is not evidence that credentials are invalid. Only the
// backend explicitly rejecting authentication can tear a session down, and
// even then a previously validated cached identity is preserved
// optimistically.
//
// # What this package must NOT do
//
//   - Verify token signatures. The client has no trustworthy key material;
//     the local exp-claim check in package token is an optimization only and
//     the backend remains the real authority on every request.
//   - Fabricate sessions. Authentication failures propagate as errors;
//     there is no demo-user fallback of any kind.
package logiscore
