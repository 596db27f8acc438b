package engine

import (
	"fmt"

	"github.com/Konsultn-Engineering/edgesql/query"
)

// Stage is the point of an invocation at which it failed.
type Stage int

const (
	StageBind Stage = iota + 1
	StageConnect
	StageExecute
)

func (s Stage) String() string {
	switch s {
	case StageBind:
		return "bind"
	case StageConnect:
		return "connect"
	case StageExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// Error is returned by a failed invocation. Err is the underlying driver
// or binding error, unchanged.
type Error struct {
	Stage Stage
	Kind  query.Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
