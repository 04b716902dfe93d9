package pf

import (
	"log/slog"
	"path/filepath"

	"github.com/nvx/pfrhf/internal/pferr"
	"github.com/nvx/pfrhf/internal/storage"
)

// MaxOpenFiles bounds the process-wide file table. It defaults to 32 and
// can be changed with SetMaxOpenFiles while no file is open.
var MaxOpenFiles = 32

// FD is a file descriptor handed out by OpenFile; it indexes into the
// process-wide file table.
type FD int

// openFile is one entry in the file table: the host file, the in-memory
// header copy, a dirty flag for the header, and the per-file iteration
// cursor (section 4.3).
type openFile struct {
	name        string
	block       *storage.File
	header      fileHeader
	headerDirty bool
	cursor      int32 // last page returned by get_next_page, -1 initially
	valid       bool
}

type table struct {
	byName map[string]FD
	slots  []*openFile
}

var ft = newTable()

func newTable() *table {
	return &table{
		byName: make(map[string]FD),
		slots:  make([]*openFile, MaxOpenFiles),
	}
}

// SetMaxOpenFiles rebinds the process-wide file table's bound. It only
// takes effect while the table is empty (no files currently open),
// mirroring bufferpool.Configure's "before Init" discipline.
func SetMaxOpenFiles(n int) {
	if len(ft.byName) > 0 {
		slog.Warn("pf: SetMaxOpenFiles called with files already open, ignoring", "requested", n)
		return
	}
	MaxOpenFiles = n
	ft = newTable()
}

// resetFileTable is a test-only hook mirroring bufferpool.Reset.
func resetFileTable() {
	ft = newTable()
}

func canonical(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}

// open registers name as an open file, failing FILE_OPEN if it is
// already open and FTAB_FULL if the table has no free slot.
func (t *table) open(name string) (FD, error) {
	key := canonical(name)
	if _, already := t.byName[key]; already {
		return 0, pferr.New(pferr.FileOpen, "pf.OpenFile")
	}

	slot := -1
	for i, e := range t.slots {
		if e == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return 0, pferr.New(pferr.FtabFull, "pf.OpenFile")
	}

	bf, err := storage.Open(name)
	if err != nil {
		return 0, err
	}

	hdrBuf := make([]byte, storage.HeaderSize)
	if err := bf.ReadHeader(hdrBuf); err != nil {
		_ = bf.Close()
		return 0, err
	}

	entry := &openFile{
		name:   key,
		block:  bf,
		header: decodeHeader(hdrBuf),
		cursor: -1,
		valid:  true,
	}
	t.slots[slot] = entry
	fd := FD(slot)
	t.byName[key] = fd

	slog.Debug("pf: opened file", "name", name, "fd", fd, "num_pages", entry.header.NumPages)
	return fd, nil
}

func (t *table) get(fd FD) (*openFile, error) {
	if int(fd) < 0 || int(fd) >= len(t.slots) {
		return nil, pferr.New(pferr.BadFD, "pf")
	}
	e := t.slots[fd]
	if e == nil || !e.valid {
		return nil, pferr.New(pferr.BadFD, "pf")
	}
	return e, nil
}

// close writes the header back if dirty, closes the host file and
// releases the slot. It does not flush the file's frames; the caller does
// that through bufferpool before calling close.
func (t *table) close(fd FD, writeHeader bool) error {
	e, err := t.get(fd)
	if err != nil {
		return err
	}
	if writeHeader && e.headerDirty {
		if err := e.block.WriteHeader(e.header.encode()); err != nil {
			return err
		}
		e.headerDirty = false
	}
	if err := e.block.Close(); err != nil {
		return err
	}
	delete(t.byName, e.name)
	t.slots[fd] = nil
	return nil
}
