package pipeline

import (
	"fmt"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// Kind classifies an ingestion failure.
type Kind int

const (
	// KindMalformedInput means the body was not a valid JSON object.
	KindMalformedInput Kind = iota
	// KindSchemaInvalid means the payload shape or types were wrong;
	// the error carries per-field detail.
	KindSchemaInvalid
	// KindDomainInvalid means a coordinate was outside its WGS-84 range.
	KindDomainInvalid
	// KindStorage means the audit append or an upsert failed.
	KindStorage
)

// String returns the metric/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindSchemaInvalid:
		return "schema_invalid"
	case KindDomainInvalid:
		return "domain_invalid"
	case KindStorage:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Error is a classified ingestion failure. The first three kinds describe
// the request and are never worth retrying; KindStorage wraps the store
// cause and is safe to retry, since the audit append and both upserts are
// idempotent for the same input.
type Error struct {
	Kind    Kind
	Message string
	Fields  domain.FieldErrors // set for KindSchemaInvalid
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether the caller may retry the same ingestion.
func (e *Error) Retryable() bool { return e.Kind == KindStorage }

func storageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op + " failed", cause: err}
}
