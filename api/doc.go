// Package api implements the HTTP/JSON client for the LogiScore backend.
//
// The client distinguishes two failure classes that callers must treat very
// differently: [*Error] for HTTP-level rejections (the backend answered and
// said no) and [*NetworkError] for transport-level failures (DNS, connection
// reset, timeout). A flaky network must never look indistinguishable from
// invalid credentials, so session-owning callers preserve cached state on
// NetworkError and only tear down on Error.
package api
