package domainstore

// This file defines the contract the store requires from the underlying
// storage engine. The engine must provide ordered, log-structured storage
// with atomic batch writes, point and range deletes, and forward iteration
// in ascending byte order. All methods must be safe for concurrent use
// against an open engine.

// Partition is an opaque handle to one domain's keyspace inside the engine.
// Partitions are minted by the engine binding when the store is opened and
// become invalid once the engine is closed.
type Partition interface {
	Name() string
}

// ScanOptions tunes a key scan. Both knobs are throughput hints; engines
// that cannot honor them may ignore them.
type ScanOptions struct {
	// VerifyChecksums requests block checksum verification during the scan.
	VerifyChecksums bool
	// FillCache requests that scanned blocks be admitted to the read cache.
	FillCache bool
}

// Iterator walks keys of one partition in ascending byte order.
type Iterator interface {
	// Next advances to the next key, returning false when exhausted.
	Next() bool
	// Key returns the current key, or "" if the iterator is not positioned.
	Key() string
	// Release frees the iterator resources.
	Release()
	// Error returns any error encountered during iteration.
	Error() error
}

// Engine is the binding to the underlying storage engine.
type Engine interface {
	// Write applies an ordered list of pairs to one partition as a single
	// atomic unit. When sync is true the write is durably flushed before
	// returning; otherwise the write-ahead log is not synced and the data
	// may be lost on crash.
	Write(p Partition, pairs []KVPair, sync bool) error
	// Get returns the value stored under key, or ErrNotFound.
	Get(p Partition, key string) (string, error)
	// Delete removes a single key.
	Delete(p Partition, key string, sync bool) error
	// DeleteRange removes every key k with low <= k < high. The upper
	// bound is exclusive. A degenerate range (low >= high) is a no-op.
	DeleteRange(p Partition, low, high string, sync bool) error
	// Keys opens a forward iterator over the partition's full keyspace.
	Keys(p Partition, opts ScanOptions) (Iterator, error)
	// Close releases the engine handle.
	Close() error
}
