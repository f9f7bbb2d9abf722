// Package token reads expiration claims out of LogiScore bearer tokens
// without verifying signatures.
//
// The client has no trustworthy key material, so nothing here is a security
// boundary: the decoded exp claim is used only to decide whether a refresh
// should be attempted before the backend would reject the token. The backend
// independently enforces token validity on every request.
package token
