// Package memory is the conversation store.
//
// Persistence model:
//   - The whole conversation collection is one JSON snapshot under a single key;
//     the current conversation id is stored under a separate key.
//   - Every mutation rewrites the snapshot (write-through). A failed write is logged
//     and never rolls back the in-memory change.
//   - Messages are append-only. Only progress messages may be removed.
package memory
