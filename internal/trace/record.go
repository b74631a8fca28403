package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"
	"time"
)

// Kind tells span boundaries from instant records.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Record is one traced event.
type Record struct {
	At     time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64
	Parent uint64
	Name   string
	Detail string
	// Elapsed is set on KindEnd.
	Elapsed time.Duration
	Attrs   map[string]string
}

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func emit(t Tracer, r Record) {
	r.At = time.Now()
	r.Seq = seqCounter.Add(1)
	t.Emit(r)
}

// Span is an open interval started by Begin. A nil or inactive span
// ignores every call.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// Begin opens a span under parent (0 for a root span). The span is
// inactive when t does not accept scope.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().Allows(scope) {
		return &Span{}
	}
	sp := &Span{
		t:       t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	emit(t, Record{Kind: KindBegin, Scope: scope, Span: sp.id, Parent: parent, Name: name})
	return sp
}

// WithExtra attaches an attribute reported on End.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// ID is 0 for inactive spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	d := time.Since(s.started)
	emit(s.t, Record{
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  detail,
		Elapsed: d,
		Attrs:   s.attrs,
	})
	s.t = nil
	return d
}

// Point emits an instant record when t accepts scope.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().Allows(scope) {
		return
	}
	emit(t, Record{Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// Format is the encoding of written records.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// AppendRecord encodes r in format f onto buf, newline included.
func AppendRecord(buf []byte, r *Record, f Format) []byte {
	if f == FormatNDJSON {
		return appendJSON(buf, r)
	}
	return appendText(buf, r)
}

// appendText: "15:04:05.000000 #12 > phase:analyze (detail) 1.2ms {k=v}".
func appendText(buf []byte, r *Record) []byte {
	buf = r.At.AppendFormat(buf, "15:04:05.000000")
	buf = fmt.Appendf(buf, " #%-5d ", r.Seq)
	if r.Parent != 0 {
		buf = append(buf, "  "...)
	}
	switch r.Kind {
	case KindBegin:
		buf = append(buf, "> "...)
	case KindEnd:
		buf = append(buf, "< "...)
	default:
		buf = append(buf, "* "...)
	}
	buf = append(buf, r.Scope.String()...)
	buf = append(buf, ':')
	buf = append(buf, r.Name...)
	if r.Detail != "" {
		buf = fmt.Appendf(buf, " (%s)", r.Detail)
	}
	if r.Kind == KindEnd {
		buf = append(buf, ' ')
		buf = append(buf, r.Elapsed.Round(time.Microsecond).String()...)
	}
	if len(r.Attrs) > 0 {
		pairs := make([]string, 0, len(r.Attrs))
		for _, k := range slices.Sorted(maps.Keys(r.Attrs)) {
			pairs = append(pairs, k+"="+r.Attrs[k])
		}
		buf = fmt.Appendf(buf, " {%s}", strings.Join(pairs, ", "))
	}
	return append(buf, '\n')
}

type jsonRecord struct {
	Time    string            `json:"time"`
	Seq     uint64            `json:"seq"`
	Kind    string            `json:"kind"`
	Scope   string            `json:"scope"`
	Span    uint64            `json:"span,omitempty"`
	Parent  uint64            `json:"parent,omitempty"`
	Name    string            `json:"name"`
	Detail  string            `json:"detail,omitempty"`
	Elapsed int64             `json:"elapsed_us,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

func appendJSON(buf []byte, r *Record) []byte {
	data, err := json.Marshal(jsonRecord{
		Time:    r.At.Format(time.RFC3339Nano),
		Seq:     r.Seq,
		Kind:    r.Kind.String(),
		Scope:   r.Scope.String(),
		Span:    r.Span,
		Parent:  r.Parent,
		Name:    r.Name,
		Detail:  r.Detail,
		Elapsed: r.Elapsed.Microseconds(),
		Attrs:   r.Attrs,
	})
	if err != nil {
		return buf
	}
	buf = append(buf, data...)
	return append(buf, '\n')
}
