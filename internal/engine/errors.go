package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPosition means the caller referenced a position the ledger
	// has never seen. This is an integration defect and is surfaced loudly,
	// never swallowed.
	ErrUnknownPosition = errors.New("unknown position")

	// ErrAlreadyExited signals that an exit was applied to a position that
	// has already left the ledger. It is a recoverable no-op guard: P&L and
	// counters are not touched twice.
	ErrAlreadyExited = errors.New("position already exited")
)

// InvalidSetupError reports a setup that violates the entry/stop/target
// ordering or has non-positive risk. Raised at construction time only.
type InvalidSetupError struct {
	Detail string
}

func (e *InvalidSetupError) Error() string {
	return "invalid setup: " + e.Detail
}

func invalidSetupf(format string, args ...any) error {
	return &InvalidSetupError{Detail: fmt.Sprintf(format, args...)}
}

// AdmissionError carries the single diagnostic reason from the admission
// checklist. Callers decide whether to retry later or drop the signal.
type AdmissionError struct {
	Reason DenyReason
}

func (e *AdmissionError) Error() string {
	return "admission denied: " + string(e.Reason)
}
