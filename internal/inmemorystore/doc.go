// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. Drafts live for the lifetime of the
// editor session and are never persisted.
package inmemorystore
