package domainstore

import "sync/atomic"

// Diagnostics is the shared diagnostic context injected into every store
// instance. It carries two process-wide signals: the corruption indicator,
// set by the engine's diagnostic callback and consumed by the lifecycle
// manager on close, and the event-capture kill switch raised when the store
// degrades to read-only mode.
//
// All methods are non-blocking and safe to call from a diagnostic callback
// invoked re-entrantly during an engine API call. Callbacks must only record
// intent here; they must never call back into the engine.
type Diagnostics struct {
	corrupted      atomic.Bool
	eventsDisabled atomic.Bool
}

// NewDiagnostics returns a fresh diagnostics context. Tests use this to
// isolate instances; production callers normally share SharedDiagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

var shared = NewDiagnostics()

// SharedDiagnostics returns the process-wide diagnostics context. Corruption
// discovered during any open handle's lifetime is coupled to recovery at the
// next close through this shared state.
func SharedDiagnostics() *Diagnostics {
	return shared
}

// IsCorrupted reports whether corruption has been signaled.
func (d *Diagnostics) IsCorrupted() bool {
	return d.corrupted.Load()
}

// SetCorrupted records or clears the corruption indicator. Once set it
// remains set until a close cycle observes it, runs repair and clears it.
func (d *Diagnostics) SetCorrupted(corrupted bool) {
	d.corrupted.Store(corrupted)
}

// DisableEventCapture raises the process-wide signal telling the
// event-capture subsystem to suspend. Raised when the store cannot be
// opened for writing. The signal is never lowered by this layer.
func (d *Diagnostics) DisableEventCapture() {
	d.eventsDisabled.Store(true)
}

// EventCaptureDisabled reports whether event capture has been suspended.
func (d *Diagnostics) EventCaptureDisabled() bool {
	return d.eventsDisabled.Load()
}
