package pebbledb

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rawbytedev/domainstore"
)

// diagSink receives the engine's formatted diagnostics. The engine invokes
// it from inside its own API calls on arbitrary threads, so nothing here may
// call back into the engine; corruption is only recorded on the shared
// diagnostics context for the lifecycle manager to act on later.
type diagSink struct {
	diag *domainstore.Diagnostics
	log  *slog.Logger
}

func (s *diagSink) Infof(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if isCorruptionMessage(line) {
		s.diag.SetCorrupted(true)
		s.log.Warn("storage engine reported corruption", "detail", line)
		return
	}
	s.log.Debug("storage engine", "detail", line)
}

func (s *diagSink) Errorf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if isCorruptionMessage(line) {
		s.diag.SetCorrupted(true)
	}
	s.log.Error("storage engine", "detail", line)
}

func (s *diagSink) Fatalf(format string, args ...interface{}) {
	// The engine considers this unrecoverable.
	line := fmt.Sprintf(format, args...)
	s.log.Error("storage engine fatal", "detail", line)
	panic(line)
}

// backgroundError handles errors the engine surfaces outside any caller's
// stack, such as compaction or flush failures.
func (s *diagSink) backgroundError(err error) {
	if err == nil {
		return
	}
	if isCorruptionError(err) {
		s.diag.SetCorrupted(true)
		s.log.Warn("storage engine background corruption", "err", err)
		return
	}
	s.log.Error("storage engine background error", "err", err)
}

func isCorruptionMessage(line string) bool {
	return strings.Contains(strings.ToLower(line), "corruption")
}
