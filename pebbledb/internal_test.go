package pebbledb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"syscall"
	"testing"

	"github.com/rawbytedev/domainstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionEncoding(t *testing.T) {
	p := newPartition("events")
	assert.Equal(t, "events", p.Name())

	raw := p.encode("abc")
	assert.Equal(t, []byte("events\x00abc"), raw)
	assert.Equal(t, "abc", p.decode(raw))

	assert.Equal(t, []byte("events\x01"), p.upperBound())
}

func TestPartitionBoundsCoverKeyspace(t *testing.T) {
	p := newPartition("logs")
	// Every encoded key sorts inside [prefix, upperBound).
	for _, key := range []string{"", "\x00", "a", "\xff\xff"} {
		raw := p.encode(key)
		assert.GreaterOrEqual(t, string(raw), string(p.prefix))
		assert.Less(t, string(raw), string(p.upperBound()))
	}
}

func TestRegistryValidation(t *testing.T) {
	r, err := newRegistry(domainstore.Domains)
	require.NoError(t, err)

	for _, name := range domainstore.Domains {
		p, ok := r.handle(name)
		require.True(t, ok, "missing handle for %s", name)
		assert.Equal(t, name, p.Name())
	}

	_, ok := r.handle("unregistered")
	assert.False(t, ok)

	assert.Equal(t, "", r.defaultHandle().Name())

	_, err = newRegistry([]string{"a", "a"})
	assert.Error(t, err)

	_, err = newRegistry([]string{""})
	assert.Error(t, err)
}

func TestSyncWrites(t *testing.T) {
	assert.False(t, syncWrites(domainstore.DomainEvents))
	assert.True(t, syncWrites(domainstore.DomainConfigurations))
	assert.True(t, syncWrites(domainstore.DomainQueries))
	assert.True(t, syncWrites(domainstore.DomainLogs))
}

func TestSanitizeIOError(t *testing.T) {
	pathErr := &fs.PathError{Op: "write", Path: "/var/lib/store/000123.log", Err: syscall.ENOSPC}
	wrapped := fmt.Errorf("commit batch: %w", pathErr)

	got := sanitizeIOError(wrapped)
	assert.EqualError(t, got, "i/o error: no space left on device")

	// Non-filesystem errors pass through untouched.
	plain := errors.New("pebble: batch too large: internal detail")
	assert.Same(t, plain, sanitizeIOError(plain))
}

func TestIsCorruptionMessage(t *testing.T) {
	assert.True(t, isCorruptionMessage("sstable 000042: Corruption: bad block"))
	assert.True(t, isCorruptionMessage("background error: corruption detected"))
	assert.False(t, isCorruptionMessage("compaction finished"))
}

func TestIsCorruptionError(t *testing.T) {
	assert.False(t, isCorruptionError(nil))
	assert.False(t, isCorruptionError(errors.New("mkdir /tmp/x: not a directory")))
	assert.True(t, isCorruptionError(errors.New("pebble: corruption: checksum mismatch")))
}

// TestDiagSinkLatchesCorruption verifies the diagnostic sink records intent
// without any engine interaction.
func TestDiagSinkLatchesCorruption(t *testing.T) {
	diag := domainstore.NewDiagnostics()
	sink := &diagSink{diag: diag, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	sink.Infof("flushing memtable %d", 3)
	assert.False(t, diag.IsCorrupted())

	sink.Infof("sstable %s: Corruption: invalid magic", "000007.sst")
	assert.True(t, diag.IsCorrupted())

	diag.SetCorrupted(false)
	sink.backgroundError(errors.New("pebble: corruption in WAL"))
	assert.True(t, diag.IsCorrupted())

	diag.SetCorrupted(false)
	sink.backgroundError(errors.New("disk slow"))
	assert.False(t, diag.IsCorrupted())
}
