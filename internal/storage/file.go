package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nvx/pfrhf/internal/pferr"
)

// File is a single open host file backing one PF file. It knows nothing
// about buffering, pinning, or the free-page list — it turns page numbers
// into byte offsets and counts nothing itself; callers (the buffer pool)
// are responsible for physical_reads/physical_writes accounting.
type File struct {
	Name string
	f    *os.File
}

// Create creates a new, empty host file at name. It fails with FILE_OPEN
// if a file already exists there.
func Create(name string) error {
	if _, err := os.Stat(name); err == nil {
		return pferr.New(pferr.FileOpen, "storage.Create")
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, FileMode0644)
	if err != nil {
		return pferr.Wrap(pferr.UnixErr, "storage.Create", err)
	}
	return f.Close()
}

// Destroy removes the host file backing name.
func Destroy(name string) error {
	if err := os.Remove(name); err != nil {
		return pferr.Wrap(pferr.UnixErr, "storage.Destroy", err)
	}
	return nil
}

// Open opens an existing host file for read/write.
func Open(name string) (*File, error) {
	f, err := os.OpenFile(name, os.O_RDWR, FileMode0644)
	if err != nil {
		return nil, pferr.Wrap(pferr.UnixErr, "storage.Open", err)
	}
	return &File{Name: name, f: f}, nil
}

// Close closes the underlying host file handle.
func (bf *File) Close() error {
	if err := bf.f.Close(); err != nil {
		return pferr.Wrap(pferr.UnixErr, "storage.Close", err)
	}
	return nil
}

// ReadPage reads exactly PageSize bytes for page n into dst, at absolute
// offset HeaderSize+n*PageSize. A read that lands entirely at or past EOF
// surfaces as pferr.EOF; a short read inside the page body is
// INCOMPLETE_READ.
func (bf *File) ReadPage(n int64, dst []byte) error {
	if len(dst) != PageSize {
		return fmt.Errorf("storage.ReadPage: dst must be exactly %d bytes", PageSize)
	}
	off := HeaderSize + n*PageSize
	read, err := bf.f.ReadAt(dst, off)
	if err != nil {
		if errors.Is(err, io.EOF) && read == 0 {
			return pferr.New(pferr.EOF, "storage.ReadPage")
		}
		if errors.Is(err, io.EOF) {
			return pferr.Wrap(pferr.IncompleteRead, "storage.ReadPage", err)
		}
		return pferr.Wrap(pferr.UnixErr, "storage.ReadPage", err)
	}
	return nil
}

// WritePage writes exactly PageSize bytes from src for page n, extending
// the file as needed.
func (bf *File) WritePage(n int64, src []byte) error {
	if len(src) != PageSize {
		return fmt.Errorf("storage.WritePage: src must be exactly %d bytes", PageSize)
	}
	off := HeaderSize + n*PageSize
	written, err := bf.f.WriteAt(src, off)
	if err != nil {
		return pferr.Wrap(pferr.UnixErr, "storage.WritePage", err)
	}
	if written != PageSize {
		return pferr.New(pferr.IncompleteWrite, "storage.WritePage")
	}
	return nil
}

// ReadHeader reads the fixed-width file header from the start of the file.
func (bf *File) ReadHeader(dst []byte) error {
	if len(dst) != HeaderSize {
		return fmt.Errorf("storage.ReadHeader: dst must be exactly %d bytes", HeaderSize)
	}
	n, err := bf.f.ReadAt(dst, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return pferr.Wrap(pferr.HdrRead, "storage.ReadHeader", err)
	}
	for i := n; i < HeaderSize; i++ {
		dst[i] = 0
	}
	return nil
}

// WriteHeader writes the fixed-width file header to the start of the file.
func (bf *File) WriteHeader(src []byte) error {
	if len(src) != HeaderSize {
		return fmt.Errorf("storage.WriteHeader: src must be exactly %d bytes", HeaderSize)
	}
	n, err := bf.f.WriteAt(src, 0)
	if err != nil {
		return pferr.Wrap(pferr.HdrWrite, "storage.WriteHeader", err)
	}
	if n != HeaderSize {
		return pferr.New(pferr.HdrWrite, "storage.WriteHeader")
	}
	return nil
}
