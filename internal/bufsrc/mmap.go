// Package bufsrc supplies read-only memory-mapped buffer sources for the
// ref-view index types. An RT or KT ref-view borrows a []byte without
// copying or owning it; this package is one way to obtain such a slice from
// a file on disk, adapted from the teacher's general-purpose memory-mapped
// file type down to the read-only, fixed-size case a packed index buffer
// needs — there is no resize or write path here because an index buffer
// never changes after it is written.
package bufsrc

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// MappedBuffer is a read-only memory-mapped view of a file, suitable as the
// buffer handed to rtree.Parse or kdtree.Parse. The caller must keep
// the MappedBuffer alive (not call Close) for as long as any ref-view
// constructed over its Bytes() is in use — the module places the same
// obligation on every ref-view, regardless of buffer source.
type MappedBuffer struct {
	mu   sync.RWMutex
	file *os.File
	data []byte
	path string
}

// Open memory-maps path read-only in its entirety.
func Open(path string) (*MappedBuffer, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("bufsrc: open %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("bufsrc: stat %s: %w", path, err)
	}
	size := stat.Size()
	if size == 0 {
		file.Close()
		return nil, fmt.Errorf("bufsrc: cannot map empty file %s", path)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("bufsrc: mmap %s: %w", path, err)
	}

	return &MappedBuffer{file: file, data: data, path: path}, nil
}

// Bytes returns the mapped, read-only buffer. The returned slice is valid
// until Close is called.
func (m *MappedBuffer) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Path returns the file path this buffer was opened from.
func (m *MappedBuffer) Path() string { return m.path }

// Close unmaps the memory and closes the underlying file. Any ref-view
// still holding the slice returned by Bytes becomes invalid; the module
// does not guard against this (§5: "No mutation may occur to a buffer that
// has an outstanding ref view" — the same discipline extends to unmapping).
func (m *MappedBuffer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.data != nil {
		if unmapErr := unix.Munmap(m.data); unmapErr != nil {
			err = fmt.Errorf("bufsrc: munmap %s: %w", m.path, unmapErr)
		}
		m.data = nil
	}
	if m.file != nil {
		if closeErr := m.file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("bufsrc: close %s: %w", m.path, closeErr)
		}
		m.file = nil
	}
	return err
}
