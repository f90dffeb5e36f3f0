package chain

import "fmt"

// Code is the pipeline's error taxonomy.
type Code int

const (
	InvalidParams Code = iota
	OutOfMemory
	FilterNotFound
	UnsupportedFormat
	InitializationFailed
	InvalidFilterType
	LibraryNotAvailable
)

func (c Code) String() string {
	switch c {
	case InvalidParams:
		return "InvalidParams"
	case OutOfMemory:
		return "OutOfMemory"
	case FilterNotFound:
		return "FilterNotFound"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	case InitializationFailed:
		return "InitializationFailed"
	case InvalidFilterType:
		return "InvalidFilterType"
	case LibraryNotAvailable:
		return "LibraryNotAvailable"
	default:
		return "Unknown"
	}
}

// PipelineError wraps a taxonomy Code with the slot and stage kind
// involved, so errors.Is/errors.As work the way idiomatic Go error
// wrapping expects.
type PipelineError struct {
	Code   Code
	SlotID int
	Kind   StageKind
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chain: slot %d (%s): %s: %v", e.SlotID, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("chain: slot %d (%s): %s", e.SlotID, e.Kind, e.Code)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func newErr(code Code, slotID int, kind StageKind, wrapped error) error {
	return &PipelineError{Code: code, SlotID: slotID, Kind: kind, Err: wrapped}
}
