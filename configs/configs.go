package configs

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Tunable defaults. Buffer blocks are 4 KiB units.
const (
	DefaultWriteBufferCount  = 16
	DefaultMergeNumber       = 4
	DefaultBackgroundFlushes = 4
	DefaultBufferBlocks      = 256
)

// Config holds the store settings. All tunables are optional; zero or
// negative values fall back to the defaults above.
type Config struct {
	// Path is the storage directory. Created on first open if missing.
	Path string
	// RequireWrite makes a failed read-write open a fatal setup error
	// instead of degrading to read-only mode.
	RequireWrite bool

	// WriteBufferCount caps the number of concurrent write buffers.
	WriteBufferCount int
	// MergeNumber is the minimum number of write buffers to merge before
	// flushing to disk.
	MergeNumber int
	// BackgroundFlushes caps background flush concurrency.
	BackgroundFlushes int
	// BufferBlocks sizes one write buffer, in 4 KiB blocks.
	BufferBlocks int
}

// DefaultConfig returns a config for the given storage path with every
// tunable at its default.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		WriteBufferCount:  DefaultWriteBufferCount,
		MergeNumber:       DefaultMergeNumber,
		BackgroundFlushes: DefaultBackgroundFlushes,
		BufferBlocks:      DefaultBufferBlocks,
	}
}

// FromEnv builds a config from the process environment. A .env or
// .env.local file is loaded first if present. Recognized variables use the
// DOMAINSTORE_ prefix, e.g. DOMAINSTORE_PATH, DOMAINSTORE_REQUIRE_WRITE,
// DOMAINSTORE_WRITE_BUFFER_COUNT.
func FromEnv() Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v := viper.New()
	v.SetEnvPrefix("domainstore")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("path", "")
	v.SetDefault("require_write", false)
	v.SetDefault("write_buffer_count", DefaultWriteBufferCount)
	v.SetDefault("merge_number", DefaultMergeNumber)
	v.SetDefault("background_flushes", DefaultBackgroundFlushes)
	v.SetDefault("buffer_blocks", DefaultBufferBlocks)

	cfg := Config{
		Path:              v.GetString("path"),
		RequireWrite:      v.GetBool("require_write"),
		WriteBufferCount:  v.GetInt("write_buffer_count"),
		MergeNumber:       v.GetInt("merge_number"),
		BackgroundFlushes: v.GetInt("background_flushes"),
		BufferBlocks:      v.GetInt("buffer_blocks"),
	}
	return cfg.Normalized()
}

// Normalized returns a copy with every non-positive tunable replaced by its
// default.
func (c Config) Normalized() Config {
	if c.WriteBufferCount <= 0 {
		c.WriteBufferCount = DefaultWriteBufferCount
	}
	if c.MergeNumber <= 0 {
		c.MergeNumber = DefaultMergeNumber
	}
	if c.BackgroundFlushes <= 0 {
		c.BackgroundFlushes = DefaultBackgroundFlushes
	}
	if c.BufferBlocks <= 0 {
		c.BufferBlocks = DefaultBufferBlocks
	}
	return c
}
