// Package errs holds the error taxonomy shared by extractors, the sync
// engine and the store gateways. Callers match with errors.Is.
package errs

import "errors"

var (
	// ErrSourceUnavailable wraps network or upstream API failures.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedRecord marks an upstream item that lacks a required field.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrSchemaMismatch means the new records do not fit the persisted table.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrKeyColumnMissing means a composite key column is absent from a record.
	ErrKeyColumnMissing = errors.New("key column missing")
	// ErrStoreUnavailable wraps failures talking to the persistent store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTableNotFound is returned when appending to a table that does not exist.
	ErrTableNotFound = errors.New("table not found")
)
