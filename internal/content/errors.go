package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRetrieval marks failures talking to the candidate store.
	ErrRetrieval = errors.New("retrieval error")
	// ErrHashComputation marks unusable images or fingerprint sequences.
	ErrHashComputation = errors.New("hash computation error")
	// ErrInputTooShort marks submissions below the minimum word count. It is
	// a skip outcome rather than a failure.
	ErrInputTooShort = errors.New("input too short")
	// ErrItemNotFound is returned by stores when an item ID is unknown.
	ErrItemNotFound = errors.New("item not found")
)

// RetrievalError wraps a store failure with the query that caused it.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRetrieval, e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() []error { return []error{ErrRetrieval, e.Err} }

// ErrorKind classifies the error for structured logs.
func (e *RetrievalError) ErrorKind() string { return "retrieval" }

// HashComputationError wraps a failure to derive or accept a fingerprint.
type HashComputationError struct {
	Source string
	Err    error
}

func (e *HashComputationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrHashComputation, e.Source, e.Err)
}

func (e *HashComputationError) Unwrap() []error { return []error{ErrHashComputation, e.Err} }

// ErrorKind classifies the error for structured logs.
func (e *HashComputationError) ErrorKind() string { return "hash_computation" }

// Retrieval returns a RetrievalError for op. A nil err yields nil.
func Retrieval(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *RetrievalError
	if errors.As(err, &existing) {
		return err
	}
	return &RetrievalError{Op: strings.TrimSpace(op), Err: err}
}

// HashComputation returns a HashComputationError for source. A nil err yields nil.
func HashComputation(source string, err error) error {
	if err == nil {
		return nil
	}
	var existing *HashComputationError
	if errors.As(err, &existing) {
		return err
	}
	return &HashComputationError{Source: strings.TrimSpace(source), Err: err}
}

// ErrorKind maps err onto the taxonomy name used in logs. Unknown errors
// report "internal".
func ErrorKind(err error) string {
	var classifier interface{ ErrorKind() string }
	switch {
	case err == nil:
		return ""
	case errors.As(err, &classifier):
		return classifier.ErrorKind()
	case errors.Is(err, ErrInputTooShort):
		return "input_too_short"
	default:
		return "internal"
	}
}
