package kv

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/log"
)

// lockFileName is the sibling advisory lock file named per §6. Any stable
// name works; nogdb.lock is the name the spec gives as an example.
const lockFileName = "nogdb.lock"

// acquireExclusive takes a process-wide advisory exclusive lock on
// <dir>/nogdb.lock. The first opener of an environment directory succeeds;
// any later opener — in this process or another — fails with
// CodeContextLocked until the first releases it (orderly Close, or process
// death, which the OS turns into an automatic unlock).
func acquireExclusive(dir string) (*flock.Flock, error) {
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "failed to acquire environment lock file", err)
	}
	if !ok {
		return nil, gderrors.Usage(gderrors.CodeContextLocked, "environment %q is already open by another process", dir)
	}
	log.WithComponent("kv").Debug().Str("path", path).Msg("acquired environment lock")
	return fl, nil
}

func releaseExclusive(fl *flock.Flock) error {
	if fl == nil {
		return nil
	}
	if err := fl.Unlock(); err != nil {
		return gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "failed to release environment lock file", err)
	}
	return nil
}
