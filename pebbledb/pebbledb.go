// Package pebbledb implements the domainstore persistence layer on top of
// the pebble storage engine. One Store owns one open engine handle and the
// partition handles for every registered domain.
//
// Usage:
//
//	st := pebbledb.NewStore(configs.DefaultConfig(dir), nil, nil)
//	err := st.SetUp()
//	err = st.Put(domainstore.DomainConfigurations, key, value)
//	value, err := st.Get(domainstore.DomainConfigurations, key)
//	err = st.Close()
package pebbledb

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/rawbytedev/domainstore"
	"github.com/rawbytedev/domainstore/configs"
	"github.com/rawbytedev/domainstore/helpers"
)

// backupSuffix names the directory a corrupt store is moved to during
// repair. At most one backup generation is kept.
const backupSuffix = ".backup"

// Store metadata kept in the engine's reserved default partition.
const (
	formatVersionKey = "format_version"
	formatVersion    = "1"
)

var _ domainstore.Database = (*Store)(nil)

// Store manages the lifecycle of one pebble-backed database and implements
// domainstore.Database. Reads and writes may run concurrently against an
// open store; Close requires external coordination with in-flight calls.
type Store struct {
	cfg  configs.Config
	diag *domainstore.Diagnostics
	log  *slog.Logger

	// initialized latches the one-time consumption of the tunables.
	initialized bool

	// mu serializes open/close transitions, including repair on close.
	mu       sync.Mutex
	eng      domainstore.Engine
	reg      *registry
	readOnly bool
}

// NewStore creates a store for the given config. A nil diag uses the
// process-wide shared diagnostics context; a nil log uses slog.Default().
// The store is not opened until SetUp is called.
func NewStore(cfg configs.Config, diag *domainstore.Diagnostics, log *slog.Logger) *Store {
	if diag == nil {
		diag = domainstore.SharedDiagnostics()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{cfg: cfg, diag: diag, log: log}
}

// SetUp opens the database at the configured path. It may be called
// repeatedly; any previously open handle set is released first so repeated
// setups do not leak. If the open reports corruption the store is repaired
// and the open retried exactly once. A failed open is fatal when
// RequireWrite is set; otherwise the store degrades to read-only mode and
// event capture is disabled process-wide.
func (s *Store) SetUp() error {
	if !s.initialized {
		s.initialized = true
		s.cfg = s.cfg.Normalized()
	}

	path := s.cfg.Path
	if helpers.PathExists(path) && !helpers.IsReadable(path) {
		return fmt.Errorf("cannot read database path: %s", path)
	}
	s.log.Debug("opening database", "path", path)

	if err := s.Close(); err != nil {
		s.log.Warn("closing previous database handle", "err", err)
	}

	eng, err := openEngine(s.cfg, s.diag, s.log)
	if err != nil && isCorruptionError(err) {
		s.log.Warn("database corrupt at open", "path", path, "err", err)
		s.repair()
		eng, err = openEngine(s.cfg, s.diag, s.log)
	}
	if err != nil {
		s.log.Info("database open failed", "path", path, "err", err)
		if s.cfg.RequireWrite {
			return fmt.Errorf("open database at %s: %w", path, err)
		}
		s.log.Info("continuing with read-only support", "path", path)
		s.diag.DisableEventCapture()
		s.mu.Lock()
		s.readOnly = true
		s.mu.Unlock()
		return nil
	}

	reg, err := newRegistry(domainstore.Domains)
	if err != nil {
		_ = eng.Close()
		return fmt.Errorf("register domains: %w", err)
	}

	s.mu.Lock()
	s.eng = eng
	s.reg = reg
	s.readOnly = false
	s.mu.Unlock()

	// The engine may create the directory with looser bits than we want.
	if err := helpers.Chmod(path, 0o700); err != nil {
		return fmt.Errorf("cannot set permissions on database path %s: %w", path, err)
	}

	s.stampFormatVersion(eng, reg)
	return nil
}

// Close releases every partition handle and the store handle. If the
// corruption indicator is set, repair runs after the handles are released
// and the indicator is cleared. Close on a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.eng != nil {
		err = s.eng.Close()
		s.eng = nil
		s.reg = nil
	}

	if s.diag.IsCorrupted() {
		s.repair()
		s.diag.SetCorrupted(false)
	}
	return err
}

// repair is a best-effort salvage: the corrupt storage directory is moved
// aside to a backup path so the next open creates a fresh store. No attempt
// is made to recover data in place; at most one prior backup generation is
// overwritten. Callers must ensure no handle is open on the directory.
func (s *Store) repair() {
	repairsTotal.Inc()
	bpath := s.cfg.Path + backupSuffix
	if helpers.PathExists(bpath) {
		if err := helpers.RemovePath(bpath); err != nil {
			s.log.Error("cannot remove previous database backup", "path", bpath, "err", err)
			return
		}
		s.log.Warn("removed previous database backup", "path", bpath)
	}

	if err := helpers.MovePath(s.cfg.Path, bpath); err != nil {
		s.log.Error("cannot back up database", "path", bpath, "err", err)
		return
	}
	s.log.Warn("database moved aside for recovery, a fresh store will be created on next open", "backup", bpath)
}

// handle resolves a domain name to the open engine and its partition.
func (s *Store) handle(domain string) (domainstore.Engine, *partition, error) {
	eng, reg := s.eng, s.reg
	if eng == nil {
		return nil, nil, domainstore.ErrNotOpen
	}
	p, ok := reg.handle(domain)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domainstore.ErrUnknownDomain, domain)
	}
	return eng, p, nil
}

// syncWrites reports whether writes to domain must be synchronously
// flushed. The events domain is high volume and skips the flush; large
// event expirations would otherwise cause multi-syncs.
func syncWrites(domain string) bool {
	return domain != domainstore.DomainEvents
}

// Put stores a single key-value pair.
func (s *Store) Put(domain, key, value string) error {
	return s.PutBatch(domain, []domainstore.KVPair{{Key: key, Value: value}})
}

// PutInt stores an integer value as its decimal representation.
func (s *Store) PutInt(domain, key string, value int) error {
	return s.PutBatch(domain, []domainstore.KVPair{{Key: key, Value: strconv.Itoa(value)}})
}

// PutBatch applies an ordered list of pairs to one domain as a single
// atomic unit. In read-only mode the write is skipped and reported as
// success.
func (s *Store) PutBatch(domain string, pairs []domainstore.KVPair) error {
	if s.isReadOnly() {
		s.noteReadOnlySkip(domain)
		return nil
	}
	eng, p, err := s.handle(domain)
	if err != nil {
		return err
	}
	if err := eng.Write(p, pairs, syncWrites(domain)); err != nil {
		return sanitizeIOError(err)
	}
	writesTotal.Inc()
	return nil
}

// Remove deletes a single key.
func (s *Store) Remove(domain, key string) error {
	if s.isReadOnly() {
		s.noteReadOnlySkip(domain)
		return nil
	}
	eng, p, err := s.handle(domain)
	if err != nil {
		return err
	}
	if err := eng.Delete(p, key, syncWrites(domain)); err != nil {
		return err
	}
	deletesTotal.Inc()
	return nil
}

// RemoveRange deletes every key k with low <= k <= high. The engine's
// native range delete excludes the upper bound, so high is deleted with an
// explicit follow-up — but only when low <= high holds; an inverted range
// gets the (empty) exclusive delete only.
func (s *Store) RemoveRange(domain, low, high string) error {
	if s.isReadOnly() {
		s.noteReadOnlySkip(domain)
		return nil
	}
	eng, p, err := s.handle(domain)
	if err != nil {
		return err
	}
	sync := syncWrites(domain)
	if err := eng.DeleteRange(p, low, high, sync); err != nil {
		return err
	}
	if low <= high {
		if err := eng.Delete(p, high, sync); err != nil {
			return err
		}
	}
	deletesTotal.Inc()
	return nil
}

// Get retrieves the value stored under key in the given domain. A missing
// key is reported as domainstore.ErrNotFound, not a fault.
func (s *Store) Get(domain, key string) (string, error) {
	eng, p, err := s.handle(domain)
	if err != nil {
		return "", err
	}
	getsTotal.Inc()
	return eng.Get(p, key)
}

// GetInt retrieves a value and interprets it as a decimal integer.
func (s *Store) GetInt(domain, key string) (int, error) {
	value, err := s.Get(domain, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal integer", domainstore.ErrDeserialize, value)
	}
	return n, nil
}

// Scan returns the keys in domain starting with prefix, in ascending byte
// order. The whole domain is walked from its first key with a starts-with
// filter; if max > 0 iteration stops after max matches.
func (s *Store) Scan(domain, prefix string, max int) ([]string, error) {
	eng, p, err := s.handle(domain)
	if err != nil {
		return nil, err
	}
	// One-shot walk: skip checksum verification and cache admission.
	it, err := eng.Keys(p, domainstore.ScanOptions{VerifyChecksums: false, FillCache: false})
	if err != nil {
		return nil, fmt.Errorf("iterator for %s: %w", domain, err)
	}
	defer it.Release()

	var results []string
	for it.Next() {
		key := it.Key()
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		results = append(results, key)
		if max > 0 && len(results) >= max {
			break
		}
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", domain, err)
	}
	scansTotal.Inc()
	return results, nil
}

// ReadOnly reports whether the store degraded to read-only mode.
func (s *Store) ReadOnly() bool {
	return s.isReadOnly()
}

func (s *Store) isReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

func (s *Store) noteReadOnlySkip(domain string) {
	readOnlySkipsTotal.Inc()
	s.log.Debug("write skipped, database in read-only mode", "domain", domain)
}

// stampFormatVersion records the store format version in the reserved
// default partition on first read-write open.
func (s *Store) stampFormatVersion(eng domainstore.Engine, reg *registry) {
	def := reg.defaultHandle()
	_, err := eng.Get(def, formatVersionKey)
	if errors.Is(err, domainstore.ErrNotFound) {
		pairs := []domainstore.KVPair{{Key: formatVersionKey, Value: formatVersion}}
		if werr := eng.Write(def, pairs, true); werr != nil {
			s.log.Warn("cannot stamp format version", "err", werr)
		}
		return
	}
	if err != nil {
		s.log.Warn("cannot read format version", "err", err)
	}
}

// isCorruptionError classifies engine errors that indicate on-disk
// corruption. Pebble marks these errors explicitly; the message match
// covers wrapped errors that lose the marker.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if pebble.IsCorruptionError(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "corruption")
}

// sanitizeIOError rewrites filesystem errors so callers see only the
// trailing path fragment of the engine's message instead of internal engine
// log paths. Everything up to and including the last ": " is stripped.
func sanitizeIOError(err error) error {
	var perr *fs.PathError
	if !errors.As(err, &perr) {
		return err
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return fmt.Errorf("i/o error: %s", msg[i+2:])
	}
	return err
}
