package diag

import "sync"

// DefaultBufferSize is the default bounded window of §4.9 "Backpressure".
const DefaultBufferSize = 10000

// Sink is the external reporter collaborator (§1): text/XML/SARIF/plist
// formatters all implement it. The core only ever produces a final,
// ordered, de-duplicated slice and hands it to a Sink; it never formats.
type Sink interface {
	Deliver(ds []Diagnostic) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ds []Diagnostic) error

func (f SinkFunc) Deliver(ds []Diagnostic) error { return f(ds) }

// Bus aggregates diagnostics produced across TUs and checks, de-duplicates
// and orders them, and delivers the final stream to a Sink (§4.9, §4.10).
//
// Producers call Publish concurrently (one per worker, per §5); Publish
// blocks once the bus's bounded buffer is full, providing the only
// blocking-on-backpressure suspension point named in §5.
type Bus struct {
	mu        sync.Mutex
	cond      *sync.Cond
	buffered  []Diagnostic
	capacity  int
	fileOrder map[string]int
	closed    bool
}

// NewBus constructs a Bus with the given buffer capacity (0 selects
// DefaultBufferSize) and file ordering (file path -> preprocessor
// file-index, used by the final Sort).
func NewBus(capacity int, fileOrder map[string]int) *Bus {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	b := &Bus{capacity: capacity, fileOrder: fileOrder}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Publish appends diagnostics to the bus, blocking while the buffer is at
// capacity.
func (b *Bus) Publish(ds ...Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range ds {
		for len(b.buffered) >= b.capacity && !b.closed {
			b.cond.Wait()
		}
		if b.closed {
			return
		}
		b.buffered = append(b.buffered, d.WithFingerprint())
		b.cond.Broadcast()
	}
}

// Flush de-duplicates, orders, and delivers everything published so far to
// sink, then closes the bus (no further Publish calls are accepted).
func (b *Bus) Flush(sink Sink) error {
	b.mu.Lock()
	final := Dedup(b.buffered)
	SortDiagnostics(final, b.fileOrder)
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
	return sink.Deliver(final)
}

// Snapshot returns the currently buffered diagnostics, de-duplicated and
// ordered, without closing the bus. Useful for tests and incremental
// reporting.
func (b *Bus) Snapshot() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	final := Dedup(b.buffered)
	SortDiagnostics(final, b.fileOrder)
	return final
}
