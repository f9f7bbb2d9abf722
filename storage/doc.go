// Package storage provides the durable key-value mirror of the in-memory
// session, so a restarted process can pick up where it left off.
//
// The contract is deliberately tiny (three string keys) so that hosts can
// plug in whatever survives their process lifecycle: a JSON file for CLIs,
// Redis for shared daemons, or plain memory for tests.
package storage
