// Package overlay models a map as one read-only backing plus a set of
// staged file additions, and materializes the merge into an artifact.
//
// A Container wraps either a directory or an opened archive. Staging
// never touches the backing; the override layer is applied only when a
// write strategy runs, into a separate destination. Every staged entry
// replaces a same-path backing entry wholesale, there is no byte-level
// merging.
//
// Two write strategies exist: WriteDirectory copies the backing and lays
// the staged entries on top, WriteArchive seeds a fresh archive writer
// from the backing and then adds the staged entries. Seeding tolerates
// per-entry failures and reports them as skipped entries; everything else
// fails fast.
package overlay
