package trace

import "time"

// Kind says what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	// KindFailure is a point that records something going wrong: a file that
	// failed to load, a rule that panicked, a command that errored. Failures
	// pass every level but off.
	KindFailure
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindFailure:
		return "fail"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is how fine-grained an event is; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one command
	ScopePass                    // discover, files
	ScopeFile                    // one Ruby file
	ScopeNode                    // rule dispatch on a node
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64
	File     string // Ruby file being worked on, if any
	Name     string
	Detail   string
	Extra    map[string]string
}
