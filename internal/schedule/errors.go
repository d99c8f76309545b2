package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports an id with no persisted item. Store methods wrap it so
// callers can branch with errors.Is.
var ErrNotFound = errors.New("schedule item not found")

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	KindMissingField  ErrorKind = "missing_field"
	KindInvalidFormat ErrorKind = "invalid_format"
	KindInvalidEnum   ErrorKind = "invalid_enum"
	KindOrdering      ErrorKind = "ordering_violation"
	KindDuration      ErrorKind = "duration_violation"
	KindStructural    ErrorKind = "structural_error"
	KindParse         ErrorKind = "parse_error"
	KindPermission    ErrorKind = "permission_violation"
	KindStore         ErrorKind = "store_error"
)

// ValidationError is a single violation, carrying the offending field and,
// when known, the offending item's id.
type ValidationError struct {
	Kind   ErrorKind
	Field  string
	ItemID int64
	Detail string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	if e.Detail != "" {
		b.WriteString(" (" + e.Detail + ")")
	}
	if e.ItemID != 0 {
		b.WriteString(fmt.Sprintf(" [item %d]", e.ItemID))
	}
	return b.String()
}

// BatchError aggregates every violation found across a full schedule, so a
// partially malformed AI response is diagnosable in one pass.
type BatchError struct {
	Violations []*ValidationError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d validation violation(s): %s", len(e.Violations), strings.Join(msgs, "; "))
}

func missing(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field}
}

func badFormat(field, detail string) *ValidationError {
	return &ValidationError{Kind: KindInvalidFormat, Field: field, Detail: detail}
}

func badEnum(field, detail string) *ValidationError {
	return &ValidationError{Kind: KindInvalidEnum, Field: field, Detail: detail}
}
