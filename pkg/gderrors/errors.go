// Package gderrors implements the three-way error partition the graph
// storage core uses everywhere: usage errors (bad input, recoverable within
// the transaction), storage errors (surfaced from the KV engine, abort the
// current transaction), and fatal errors (invariant violations, terminate
// the process). See SPEC_FULL.md §7.
package gderrors

import (
	"errors"
	"fmt"
)

// Category partitions errors into the three kinds §7 describes.
type Category int

const (
	// CategoryUsage errors are caused by caller input and never corrupt state.
	CategoryUsage Category = iota
	// CategoryStorage errors originate in the KV engine and abort the current
	// transaction; their numeric code is preserved for diagnostics.
	CategoryStorage
	// CategoryFatal errors indicate an invariant violation or on-disk
	// corruption. They are never returned as a normal error (see Fatal).
	CategoryFatal
)

func (c Category) String() string {
	switch c {
	case CategoryUsage:
		return "usage"
	case CategoryStorage:
		return "storage"
	case CategoryFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Code is a stable, exit-code-like identifier for a specific error condition,
// per §6.
type Code int

const (
	CodeUnspecified Code = iota
	CodeNoExistClass
	CodeNoExistProperty
	CodeNoExistIndex
	CodeNoExistVertex
	CodeNoExistRecord
	CodeDuplicateClass
	CodeDuplicateProperty
	CodeDuplicateIndex
	CodeDuplicateKey
	CodeInvalidClassName
	CodeInvalidPropertyName
	CodeInvalidClassType
	CodeInvalidPropType
	CodeClassNotEmpty
	CodeContextLocked
	CodeWriterBusy
	CodeCursorExpired
	CodeTxnClosed
	CodeStorageNotFound
	CodeStorageKeyNotFound
	CodeStorageMapFull
	CodeStorageReadersExhausted
	CodeStorageInvalidHandle
	CodeStorageGeneric
)

var codeNames = map[Code]string{
	CodeUnspecified:             "unspecified",
	CodeNoExistClass:            "no-exist-class",
	CodeNoExistProperty:         "no-exist-property",
	CodeNoExistIndex:            "no-exist-index",
	CodeNoExistVertex:           "no-exist-vertex",
	CodeNoExistRecord:           "no-exist-record",
	CodeDuplicateClass:          "duplicate-class",
	CodeDuplicateProperty:       "duplicate-property",
	CodeDuplicateIndex:          "duplicate-index",
	CodeDuplicateKey:            "duplicate-key",
	CodeInvalidClassName:        "invalid-classname",
	CodeInvalidPropertyName:     "invalid-propertyname",
	CodeInvalidClassType:        "invalid-classtype",
	CodeInvalidPropType:         "invalid-proptype",
	CodeClassNotEmpty:           "class-not-empty",
	CodeContextLocked:           "context-locked",
	CodeWriterBusy:              "writer-busy",
	CodeCursorExpired:           "cursor-expired",
	CodeTxnClosed:               "txn-closed",
	CodeStorageNotFound:         "storage-not-found",
	CodeStorageKeyNotFound:      "storage-key-not-found",
	CodeStorageMapFull:          "storage-map-full",
	CodeStorageReadersExhausted: "storage-readers-exhausted",
	CodeStorageInvalidHandle:    "storage-invalid-handle",
	CodeStorageGeneric:          "storage",
}

// String returns the stable human string paired with the code in §6.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown-error-code"
}

// Error is the core's error type. It always carries a Category and Code so
// callers can branch on errors.As without parsing message text.
type Error struct {
	Code     Code
	Category Category
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Code, e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, gderrors.New(code, ...)) comparisons by Code
// alone, ignoring Message/Cause, matching the "stable integer code" contract.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// New constructs a usage or storage Error. Use Fatal for invariant violations.
func New(code Code, category Category, message string, cause error) *Error {
	return &Error{Code: code, Category: category, Message: message, Cause: cause}
}

// Usage constructs a CategoryUsage error.
func Usage(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Category: CategoryUsage, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a KV-layer error as a CategoryStorage error, preserving cause.
func Storage(code Code, cause error) *Error {
	return &Error{Code: code, Category: CategoryStorage, Message: "storage operation failed", Cause: cause}
}

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error, and CodeUnspecified otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnspecified
}

// IsCode reports whether err carries the given Code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
