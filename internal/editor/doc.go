// Package editor implements the popup node editor.
//
// At most one editor is open at a time for the whole session. The Bridge
// holds that single active target and its working copy; nothing typed into
// the working copy reaches the graph until Save. Cancel, an explicit close
// or a pointer press outside the popup bounds, discards the working copy
// without touching the graph.
//
// Save merges only the fields the form edits (label, items, options) into
// the node's data. Every other field of the node, and every callback
// registered for it, is left as it was.
package editor
