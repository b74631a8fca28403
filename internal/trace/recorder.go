package trace

import (
	"errors"
	"io"
	"sync"
)

// Recorder is the Tracer returned by New.
type Recorder struct {
	level  Level
	format Format

	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	stream bool
	buf    []byte

	// ring хранит последние len(ring) записей; next указывает на самую старую
	ring    []Record
	next    int
	wrapped bool
	closed  bool
}

func (r *Recorder) Level() Level { return r.level }

// Emit writes the record to the stream and remembers it in the ring.
// Write errors are dropped: tracing never fails the run.
func (r *Recorder) Emit(rec Record) {
	if !r.level.Allows(rec.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.stream {
		r.buf = AppendRecord(r.buf[:0], &rec, r.format)
		_, _ = r.out.Write(r.buf)
	}
	if len(r.ring) > 0 {
		r.ring[r.next] = rec
		r.next++
		if r.next == len(r.ring) {
			r.next, r.wrapped = 0, true
		}
	}
}

// Snapshot returns the ring contents oldest first.
func (r *Recorder) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() []Record {
	if !r.wrapped {
		return append([]Record(nil), r.ring[:r.next]...)
	}
	out := make([]Record, 0, len(r.ring))
	out = append(out, r.ring[r.next:]...)
	return append(out, r.ring[:r.next]...)
}

// Dump writes the ring contents to w.
func (r *Recorder) Dump(w io.Writer) error {
	var buf []byte
	for _, rec := range r.Snapshot() {
		buf = AppendRecord(buf, &rec, r.format)
	}
	_, err := w.Write(buf)
	return err
}

// Flush flushes a buffered output.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if f, ok := r.out.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close writes a ring-only recorder's records, then flushes and closes
// the output if New opened it. Later calls do nothing.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if !r.stream && len(r.ring) > 0 {
		var buf []byte
		for _, rec := range r.snapshotLocked() {
			buf = AppendRecord(buf, &rec, r.format)
		}
		_, err := r.out.Write(buf)
		errs = append(errs, err)
	}
	errs = append(errs, r.flushLocked())
	if r.closer != nil {
		errs = append(errs, r.closer.Close())
	}
	return errors.Join(errs...)
}
