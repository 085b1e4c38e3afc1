package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how the assistant reacts to it.
type Kind int

const (
	Internal Kind = iota
	Recognition
	ConfigurationMissing
	Upstream
	Synthesis
)

func (k Kind) String() string {
	switch k {
	case Recognition:
		return "recognition"
	case ConfigurationMissing:
		return "configuration_missing"
	case Upstream:
		return "upstream"
	case Synthesis:
		return "synthesis"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost fault.Error in err's chain.
// Errors that carry no classification are Internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
