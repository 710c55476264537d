package pebbledb

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"
	"github.com/rawbytedev/domainstore"
	"github.com/rawbytedev/domainstore/configs"
)

// partition namespaces one domain's keys inside the shared pebble keyspace.
// The prefix is the domain name followed by a 0x00 separator; domain names
// never contain a NUL byte, so namespaces cannot collide or nest.
type partition struct {
	name   string
	prefix []byte
}

func newPartition(name string) *partition {
	p := make([]byte, 0, len(name)+1)
	p = append(p, name...)
	p = append(p, 0x00)
	return &partition{name: name, prefix: p}
}

func (p *partition) Name() string { return p.name }

func (p *partition) encode(key string) []byte {
	k := make([]byte, 0, len(p.prefix)+len(key))
	k = append(k, p.prefix...)
	k = append(k, key...)
	return k
}

func (p *partition) decode(raw []byte) string {
	return string(raw[len(p.prefix):])
}

// upperBound is the exclusive end of the partition's keyspace: the prefix
// with its trailing separator bumped from 0x00 to 0x01.
func (p *partition) upperBound() []byte {
	ub := make([]byte, len(p.prefix))
	copy(ub, p.prefix)
	ub[len(ub)-1] = 0x01
	return ub
}

// engine is the pebble-backed implementation of domainstore.Engine.
type engine struct {
	db *pebble.DB
}

// openEngine opens the pebble store at cfg.Path, creating it if missing.
// The diagnostic logger and background-error listener are wired to diag so
// corruption reported asynchronously by the engine latches the indicator.
func openEngine(cfg configs.Config, diag *domainstore.Diagnostics, log *slog.Logger) (*engine, error) {
	db, err := pebble.Open(cfg.Path, engineOptions(cfg, diag, log))
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("engine returned no handle")
	}
	return &engine{db: db}, nil
}

func engineOptions(cfg configs.Config, diag *domainstore.Diagnostics, log *slog.Logger) *pebble.Options {
	sink := &diagSink{diag: diag, log: log}
	opts := &pebble.Options{
		MemTableSize:                uint64(cfg.BufferBlocks) * 4096,
		MemTableStopWritesThreshold: cfg.WriteBufferCount,
		L0CompactionThreshold:       cfg.MergeNumber,
		MaxConcurrentCompactions:    func() int { return cfg.BackgroundFlushes },
		MaxOpenFiles:                128,
		Logger:                      sink,
		EventListener: &pebble.EventListener{
			BackgroundError: sink.backgroundError,
		},
	}
	// The store holds small metadata-sized values; compression buys little.
	opts.Levels = make([]pebble.LevelOptions, 7)
	for i := range opts.Levels {
		opts.Levels[i].Compression = pebble.NoCompression
	}
	return opts
}

func writeOpts(sync bool) *pebble.WriteOptions {
	if sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (e *engine) Write(p domainstore.Partition, pairs []domainstore.KVPair, sync bool) error {
	part := p.(*partition)
	b := e.db.NewBatch()
	defer func() { _ = b.Close() }()
	for _, kv := range pairs {
		if err := b.Set(part.encode(kv.Key), []byte(kv.Value), nil); err != nil {
			return err
		}
	}
	return b.Commit(writeOpts(sync))
}

func (e *engine) Get(p domainstore.Partition, key string) (string, error) {
	part := p.(*partition)
	val, closer, err := e.db.Get(part.encode(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", domainstore.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = closer.Close() }()
	return string(val), nil
}

func (e *engine) Delete(p domainstore.Partition, key string, sync bool) error {
	part := p.(*partition)
	return e.db.Delete(part.encode(key), writeOpts(sync))
}

func (e *engine) DeleteRange(p domainstore.Partition, low, high string, sync bool) error {
	// Degenerate ranges are a no-op per the engine contract.
	if low >= high {
		return nil
	}
	part := p.(*partition)
	return e.db.DeleteRange(part.encode(low), part.encode(high), writeOpts(sync))
}

// Keys opens a forward iterator bounded to the partition's namespace.
// Pebble verifies block checksums and manages its block cache internally,
// so the ScanOptions hints have nothing to map to here.
func (e *engine) Keys(p domainstore.Partition, _ domainstore.ScanOptions) (domainstore.Iterator, error) {
	part := p.(*partition)
	it, err := e.db.NewIter(&pebble.IterOptions{
		LowerBound: part.prefix,
		UpperBound: part.upperBound(),
	})
	if err != nil {
		return nil, err
	}
	return &keyIterator{it: it, part: part}, nil
}

func (e *engine) Close() error {
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	return nil
}

type keyIterator struct {
	it       *pebble.Iterator
	part     *partition
	started  bool
	valid    bool
	released bool
	closeErr error
}

func (k *keyIterator) Next() bool {
	// Pebble iterators start unpositioned.
	if !k.started {
		k.valid = k.it.First()
		k.started = true
	} else {
		k.valid = k.it.Next()
	}
	return k.valid
}

func (k *keyIterator) Key() string {
	if !k.valid {
		return ""
	}
	return k.part.decode(k.it.Key())
}

func (k *keyIterator) Release() {
	if k.released {
		return
	}
	k.valid = false
	k.released = true
	k.closeErr = k.it.Close()
}

func (k *keyIterator) Error() error {
	if k.released {
		return k.closeErr
	}
	return k.it.Error()
}
