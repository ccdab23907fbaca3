// Package exchange owns the file channel between the host and the external
// renderer: two uniquely named temp files (a JSON request the renderer reads
// and a raw array response it writes), created before the process starts and
// removed on every exit path. Process exit is the only synchronization point;
// ordering is enforced purely by program order (write, spawn, wait, read).
package exchange

import (
	"errors"
	"io/fs"
	"os"
)

// Strategy abstracts how temp files are created and held. Some platforms
// refuse to let a second process open a file whose handle the first process
// still holds, so handle lifetime is a per-platform decision made once at
// startup rather than branched on inline.
type Strategy interface {
	Create(pattern string) (*File, error)
}

// ForPlatform returns the strategy for the given GOOS value.
func ForPlatform(goos string) Strategy {
	if goos == "windows" {
		return CloseEarly{}
	}
	return KeepOpen{}
}

// KeepOpen holds the handle for the file's lifetime; the child process can
// open the path concurrently. Release closes and unlinks.
type KeepOpen struct{}

func (KeepOpen) Create(pattern string) (*File, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, err
	}
	return &File{path: f.Name(), handle: f}, nil
}

// CloseEarly closes the handle immediately after creation so the child
// process can reopen the path; Release unlinks by path.
type CloseEarly struct{}

func (CloseEarly) Create(pattern string) (*File, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}
	return &File{path: f.Name()}, nil
}

// File is one ephemeral exchange file. Only the path is part of the renderer
// contract; the handle, when present, exists solely to pin the file.
type File struct {
	path     string
	handle   *os.File
	released bool
}

func (f *File) Path() string { return f.path }

// Release closes any held handle and unlinks the file. It is idempotent and
// reports nothing when the file is already gone.
func (f *File) Release() error {
	if f.released {
		return nil
	}
	f.released = true
	var errs []error
	if f.handle != nil {
		if err := f.handle.Close(); err != nil {
			errs = append(errs, err)
		}
		f.handle = nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
