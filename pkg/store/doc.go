// Package store defines the document store client consumed by the
// resolution and subscription layers.
//
// The store owns persistence, merge, and replication of synchronized
// documents; this package only specifies the interface the rest of the
// system programs against, plus the Snapshot and Mutator value types shared
// by every adapter. Conflict resolution between concurrent mutations is
// entirely the store's concern: subscribers always take the latest
// delivered snapshot as authoritative and discard superseded ones.
//
// Adapters live under store/adapters: an in-memory store for tests and
// single-process use, and a SQLite-backed store for durable local data.
package store
