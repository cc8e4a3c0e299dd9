package kv

import (
	"errors"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/graphdb/pkg/gderrors"
)

// translateError maps bbolt's sentinel errors onto the stable storage codes
// §6 defines, so nothing above pkg/kv ever imports bbolt to do an errors.Is
// check against it.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, bolt.ErrDatabaseNotOpen):
		return gderrors.New(gderrors.CodeStorageInvalidHandle, gderrors.CategoryStorage, "environment is not open", err)
	case errors.Is(err, bolt.ErrTxClosed):
		return gderrors.New(gderrors.CodeTxnClosed, gderrors.CategoryUsage, "transaction is already closed", err)
	case errors.Is(err, bolt.ErrTxNotWritable):
		return gderrors.Usage(gderrors.CodeUnspecified, "transaction is read-only")
	case errors.Is(err, bolt.ErrBucketNotFound):
		return gderrors.New(gderrors.CodeStorageNotFound, gderrors.CategoryStorage, "sub-database not found", err)
	case errors.Is(err, bolt.ErrKeyRequired), errors.Is(err, bolt.ErrKeyTooLarge), errors.Is(err, bolt.ErrValueTooLarge):
		return gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "invalid key or value size", err)
	case errors.Is(err, bolt.ErrDatabaseReadOnly):
		return gderrors.New(gderrors.CodeStorageInvalidHandle, gderrors.CategoryStorage, "environment opened read-only", err)
	case errors.Is(err, bolt.ErrTimeout):
		return gderrors.New(gderrors.CodeStorageReadersExhausted, gderrors.CategoryStorage, "timed out waiting for database file lock", err)
	default:
		return gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "storage engine error", err)
	}
}
