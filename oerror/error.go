package oerror

import "fmt"

// Kind classifies an error raised by the movement core, the replay log or the prediction loop.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindWorldQueryOutOfBounds
	KindMalformedLogRecord
	KindStaleSnapshot
	KindRollbackBeyondHistory
	KindNonFiniteState
	KindOutOfOrder
	KindIO
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindWorldQueryOutOfBounds:
		return "world query out of bounds"
	case KindMalformedLogRecord:
		return "malformed log record"
	case KindStaleSnapshot:
		return "stale snapshot"
	case KindRollbackBeyondHistory:
		return "rollback beyond history"
	case KindNonFiniteState:
		return "non-finite state"
	case KindOutOfOrder:
		return "out of order"
	case KindIO:
		return "io"
	case KindInvalidState:
		return "invalid state"
	default:
		return "unknown"
	}
}

type FujixError struct {
	Kind Kind
	Err  string
}

// Newf returns an error of the given kind.
func Newf(kind Kind, format string, args ...interface{}) *FujixError {
	return &FujixError{Kind: kind, Err: fmt.Sprintf(format, args...)}
}

func (e *FujixError) Error() string {
	if e.Kind == KindUnknown {
		return e.Err
	}
	return e.Kind.String() + ": " + e.Err
}

// Is reports whether target is a *FujixError of the same kind, so sentinel kinds can be matched
// with errors.Is regardless of the message.
func (e *FujixError) Is(target error) bool {
	t, ok := target.(*FujixError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrWorldQueryOutOfBounds = &FujixError{Kind: KindWorldQueryOutOfBounds}
	ErrMalformedLogRecord    = &FujixError{Kind: KindMalformedLogRecord}
	ErrStaleSnapshot         = &FujixError{Kind: KindStaleSnapshot}
	ErrRollbackBeyondHistory = &FujixError{Kind: KindRollbackBeyondHistory}
	ErrNonFiniteState        = &FujixError{Kind: KindNonFiniteState}
	ErrOutOfOrder            = &FujixError{Kind: KindOutOfOrder}
	ErrIO                    = &FujixError{Kind: KindIO}
	ErrInvalidState          = &FujixError{Kind: KindInvalidState}
)
