// Package library persists designs. A Store saves, loads, lists and deletes
// whole designs by id; MemoryStore, BoltStore and DirStore are the bundled
// implementations.
package library
