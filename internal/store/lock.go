package store

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// fileLock is an advisory flock(2) lock on a sidecar lock file, guarding the
// store's read-modify-write-rename sequence against writers in other
// processes. flock applies to an inode, not a pathname, which is why the
// lock lives on a dedicated file that is never replaced - the data file
// itself is swapped by rename on every save.
//
// Unix-only, like the rest of the deployment targets.
type fileLock struct {
	f *os.File
}

// acquireFileLock blocks until an exclusive lock on path is held.
func acquireFileLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := flockRetryEINTR(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock: %w", err)
	}

	return &fileLock{f: f}, nil
}

// release unlocks and closes the lock file. Safe to call once per acquire.
func (l *fileLock) release() error {
	if l.f == nil {
		return nil
	}

	unlockErr := flockRetryEINTR(int(l.f.Fd()), syscall.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil

	return errors.Join(unlockErr, closeErr)
}

// flockRetryEINTR wraps flock, retrying when a signal interrupts the
// syscall. Retries are capped so a pathological signal storm cannot spin
// forever.
func flockRetryEINTR(fd int, how int) error {
	const maxRetries = 10000

	var err error
	for range maxRetries {
		err = syscall.Flock(fd, how)
		if err == nil || !errors.Is(err, syscall.EINTR) {
			return err
		}
	}

	return err
}
