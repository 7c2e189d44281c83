package events

import (
	"fmt"
	"time"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// ValidationError reports caller input that can never succeed; it is not retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure at the Store boundary. The core propagates it
// unchanged and never retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConsistencyError means an event reported as written could not be read
// back. It is fatal: the store broke its durability guarantee.
type ConsistencyError struct {
	Timestamp time.Time
	Category  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("event (%s, %s) missing after insert",
		models.FormatTimestamp(e.Timestamp), e.Category)
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
