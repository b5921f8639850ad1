// Package graph provides a unified facade over the authoritative node and
// edge collections and the transient per-node state of an editor session.
//
// # Why Graph Package Exists
//
// Components reacting to interaction events need more than raw store
// primitives: connecting two handles means resolving the edge style from the
// source node before inserting, removing a node means dropping its drafts and
// callbacks too, and shrinking a node's handle set means pruning the edges
// bound to handles that vanished. The Graph interface bundles those
// compositions so that callers never coordinate the stores themselves.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (connect, cascade, prune, restyle) │
//	└──────┬──────────────┬───────────┬───┘
//	       │              │           │
//	       ▼              ▼           ▼
//	┌────────────┐ ┌────────────┐ ┌──────────┐
//	│  Topology  │ │ Node State │ │ Callback │
//	│   Store    │ │   Store    │ │ Registry │
//	│  (graph)   │ │  (drafts)  │ │          │
//	└────────────┘ └────────────┘ └──────────┘
//
// **Topology Store** (topologystore.Store):
//   - The single source of truth for nodes and edges
//   - All-or-nothing mutations with change notifications
//
// **Node Store** (nodestore.Store):
//   - In-progress text and new-item drafts, never authoritative
//
// **Callback Registry** (handlers.Handlers):
//   - Function-valued node behavior, keyed by node id, outside node data
//
// # Usage Patterns
//
// The session wires one Manager per editor session:
//
//	g := graph.New(inmemorytopology.New(), inmemorystore.New(), handlers.New())
//	e, added, err := g.Connect(ctx, "dndnode_0", "item-1", "dndnode_1", "")
//
// # Thread-Safety
//
// All Graph methods are thread-safe by delegation to the underlying stores.
// Sequences of calls are not atomic; the session serializes events so that
// no intermediate state is observable between them.
package graph
