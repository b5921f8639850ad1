// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Insertion order of nodes and edges is
// preserved so snapshots render deterministically.
package inmemorytopology
