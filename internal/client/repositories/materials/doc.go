// Package materials holds the in-memory material tree of the client.
//
// # Overview
//
// The tree is kept as a flat, ordered collection of models.Material nodes
// linked by ParentID. New nodes are placed at the front, so Children lists
// the most recently added items first. All queries return copies; callers
// never hold pointers into the store.
//
// The repository applies state transitions only. It never talks to the
// network and never decides whether a transition is allowed; that is the
// job of services.MaterialService.
//
// Concurrency
//
// MemoryRepository is guarded by a mutex and each method is atomic, so a
// reader never observes a half-applied transition.
package materials
