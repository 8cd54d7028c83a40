package lockmint

import (
	"fmt"
)

type ProcessingErrorKind string

const (
	ProcessingErrorInsufficientFund ProcessingErrorKind = "InsufficientFund"
	ProcessingErrorOther            ProcessingErrorKind = "Other"
)

const insufficientFundFormat = "insufficient amount after fees: expected at least %d, got %d"

// ProcessingError is a classified network rejection attached to a deposit
// when minting is permanently refused.
type ProcessingError struct {
	Kind     ProcessingErrorKind `json:"kind"`
	Expected uint64              `json:"expected,omitempty"`
	Got      uint64              `json:"got,omitempty"`
	Message  string              `json:"message"`
}

// ParseProcessingError classifies a network error message. The insufficient
// funds shape is the only one the network reports in a structured way,
// everything else stays opaque.
func ParseProcessingError(message string) ProcessingError {
	var expected, got uint64

	if n, err := fmt.Sscanf(message, insufficientFundFormat, &expected, &got); err == nil && n == 2 {
		return ProcessingError{
			Kind:     ProcessingErrorInsufficientFund,
			Expected: expected,
			Got:      got,
			Message:  message,
		}
	}

	return ProcessingError{
		Kind:    ProcessingErrorOther,
		Message: message,
	}
}

func (e ProcessingError) Error() string {
	return e.Message
}

// IsTerminal reports whether the deposit should be ignored instead of
// retried. Fees already ate the deposit, resubmitting cannot change that.
func (e ProcessingError) IsTerminal() bool {
	return e.Kind == ProcessingErrorInsufficientFund
}
