// Package lock keeps two pipeline runs from mutating the same working
// directory at once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the lock file created inside the working directory.
const FileName = ".aneks.lock"

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another aneks instance is already running")

// AlreadyRunningError carries the lock path and, when readable, the PID of
// the holder. It matches ErrAlreadyRunning with errors.Is.
type AlreadyRunningError struct {
	Path string
	PID  int
}

func (e *AlreadyRunningError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("%s (pid %d holds %s)", ErrAlreadyRunning, e.PID, e.Path)
	}
	return fmt.Sprintf("%s (%s is locked)", ErrAlreadyRunning, e.Path)
}

// Is reports whether target is ErrAlreadyRunning.
func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// Lock is a held, exclusive, non-blocking advisory lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the lock at path without waiting. The lock is released by
// Release or when the process exits.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	// Release unlinks the file, so a lock taken on an unlinked inode is
	// retried against the new one.
	for attempt := 0; attempt < 3; attempt++ {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open lock file: %w", err)
		}

		if err := lockFile(f); err != nil {
			_ = f.Close()
			if errors.Is(err, errWouldBlock) {
				return nil, &AlreadyRunningError{Path: path, PID: readPID(path)}
			}
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}

		if !stillLinked(f, path) {
			_ = unlockFile(f)
			_ = f.Close()
			continue
		}

		l := &Lock{file: f, path: path}
		if err := l.writePID(); err != nil {
			_ = l.Release()
			return nil, err
		}
		return l, nil
	}

	return nil, &AlreadyRunningError{Path: path}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	// Unlink while still holding the lock so nobody can lock the old inode.
	// Windows refuses to remove an open file; retry after closing.
	removeErr := os.Remove(l.path)
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil

	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		removeErr = os.Remove(l.path)
	}
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}

	return errors.Join(removeErr, unlockErr, closeErr)
}

func (l *Lock) writePID() error {
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := l.file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		return fmt.Errorf("failed to write pid: %w", err)
	}
	return nil
}

func stillLinked(f *os.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, current)
}

func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
