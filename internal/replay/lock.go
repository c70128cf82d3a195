package replay

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the advisory lock file created in the working directory.
//
// The file is left in place after the replay. Only the lock on it is
// released; deleting it while another process has it open would let two
// replays hold locks on different inodes for the same path.
const LockFile = ".demoreplay.lock"

// lockDir takes a non-blocking exclusive lock on dir ("" is the current
// directory). The returned func releases it.
func lockDir(dir string) (func(), error) {
	if dir == "" {
		dir = "."
	}

	fileLock := flock.New(filepath.Join(dir, LockFile))
	locked, err := fileLock.TryLock()
	if err != nil {
		// The directory is unusable for the engine too.
		return nil, &Error{
			Code:    ErrCodeLaunch,
			Message: "working directory is not usable",
			Path:    dir,
			Err:     err,
		}
	}
	if !locked {
		_ = fileLock.Close()
		return nil, NewBusyError(dir)
	}

	return func() { _ = fileLock.Unlock() }, nil
}
