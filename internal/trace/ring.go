package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events of a run in memory. When a failure was
// recorded and an output is attached, Close writes the buffer out, so a
// clean run leaves no trace behind.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	n      int
	level  Level
	failed bool

	open   func() (io.Writer, error)
	format Format
}

// NewRingTracer keeps up to capacity events; 4096 when capacity <= 0.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// DumpOnFailure attaches the output Close writes to. open is called only
// when there is something to write.
func (t *RingTracer) DumpOnFailure(open func() (io.Writer, error), format Format) *RingTracer {
	t.open = open
	t.format = format
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev.Kind, ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	t.n = min(t.n+1, len(t.buf))
	if ev.Kind == KindFailure {
		t.failed = true
	}
	t.mu.Unlock()
}

// Failed reports whether a failure event was recorded.
func (t *RingTracer) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// Snapshot returns the buffered events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.n)
	first := (t.next - t.n + len(t.buf)) % len(t.buf)
	for i := range t.n {
		out = append(out, t.buf[(first+i)%len(t.buf)])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error {
	if t.open == nil || !t.Failed() {
		return nil
	}
	w, err := t.open()
	if err != nil {
		return err
	}
	err = t.Dump(w, t.format)
	if cerr := closeOutput(w); err == nil {
		err = cerr
	}
	return err
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
