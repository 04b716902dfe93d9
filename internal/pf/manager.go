// Package pf is the PF Page Manager: the public contract for allocating,
// disposing, fetching, and iterating fixed-size pages backed by a
// process-wide buffer pool and file table. RHF reaches its pages only
// through pf, and pf is the package that drives storage's file I/O and
// bufferpool's pin/unpin calls.
package pf

import (
	"github.com/nvx/pfrhf/internal/bufferpool"
	"github.com/nvx/pfrhf/internal/bx"
	"github.com/nvx/pfrhf/internal/pferr"
	"github.com/nvx/pfrhf/internal/storage"
)

// pageIO adapts the file table to bufferpool.PageIO, dispatching by file
// ID (== FD) to the right host file.
type pageIO struct{}

func (pageIO) ReadPage(fileID int, pageNum int32, dst []byte) error {
	e, err := ft.get(FD(fileID))
	if err != nil {
		return err
	}
	return e.block.ReadPage(int64(pageNum), dst)
}

func (pageIO) WritePage(fileID int, pageNum int32, src []byte) error {
	e, err := ft.get(FD(fileID))
	if err != nil {
		return err
	}
	return e.block.WritePage(int64(pageNum), src)
}

var pio = pageIO{}

func key(fd FD, n int32) bufferpool.Key {
	return bufferpool.Key{FileID: int(fd), PageNum: n}
}

// Init configures and initializes the buffer pool with the given
// capacity and strategy. Calling Init twice is a no-op for the buffer
// pool (see bufferpool.Init). Init does not touch the file table.
func Init(capacity int, strategy bufferpool.Strategy) {
	bufferpool.Configure(capacity, strategy)
	bufferpool.Init()
}

// SetBufferSize is supported only before Init; afterwards it is a no-op
// with a warning, since capacity is fixed at init (section 4.2).
func SetBufferSize(n int) {
	bufferpool.Configure(n, bufferpool.LRU)
}

// SetStrategy swaps the replacement strategy; effective on the next
// eviction.
func SetStrategy(strategy bufferpool.Strategy) {
	bufferpool.SetStrategy(strategy)
}

// CreateFile creates a new, empty PF file: a host file with a freshly
// initialized header (num_pages=0, first_free_page=-1).
func CreateFile(name string) error {
	if err := storage.Create(name); err != nil {
		return err
	}
	bf, err := storage.Open(name)
	if err != nil {
		return err
	}
	defer bf.Close()
	hdr := fileHeader{NumPages: 0, FirstFreePage: -1}
	return bf.WriteHeader(hdr.encode())
}

// DestroyFile removes the host file backing name. The file must not be
// open.
func DestroyFile(name string) error {
	return storage.Destroy(name)
}

// OpenFile opens name, reading its header into the file table.
func OpenFile(name string) (FD, error) {
	return ft.open(name)
}

// CloseFile flushes every frame owned by fd (failing PAGE_FIXED if any
// are still pinned), writes back the header if dirty, and releases the
// file table slot.
func CloseFile(fd FD) error {
	if err := bufferpool.FlushFile(int(fd), pio); err != nil {
		return err
	}
	return ft.close(fd, true)
}

// GetThisPage pins page n of fd after validating it is within
// [0,num_pages).
func GetThisPage(fd FD, n int32) ([]byte, error) {
	e, err := ft.get(fd)
	if err != nil {
		return nil, err
	}
	if n < 0 || uint32(n) >= e.header.NumPages {
		return nil, pferr.New(pferr.InvalidPage, "pf.GetThisPage")
	}
	f, _, err := bufferpool.Pin(key(fd, n), pio, false)
	if err != nil {
		return nil, err
	}
	return f.Buf, nil
}

// GetFirstPage resets fd's iteration cursor and returns the first live
// page.
func GetFirstPage(fd FD) (int32, []byte, error) {
	e, err := ft.get(fd)
	if err != nil {
		return 0, nil, err
	}
	e.cursor = -1
	return GetNextPage(fd, e.cursor)
}

// GetNextPage advances fd's cursor to the next live page at index
// ≥ cursor+1, skipping pages currently on the free list, and pins it.
// Returns pferr.EOF once the cursor passes num_pages-1.
//
// Pages allocated after a scan begins are visible to that scan: the
// cursor simply walks forward over whatever the file's current
// num_pages/free-list state is at the time of each call, with no
// snapshot taken at get_first_page. This favors simplicity over
// isolation, matching the open question left by the design: iteration
// is documented as unprotected against concurrent mutation (section
// 4.3), so a mid-scan alloc_page is visible rather than hidden.
func GetNextPage(fd FD, cursor int32) (int32, []byte, error) {
	e, err := ft.get(fd)
	if err != nil {
		return 0, nil, err
	}
	free, err := freeSet(fd, e)
	if err != nil {
		return 0, nil, err
	}
	n := cursor + 1
	for uint32(n) < e.header.NumPages {
		if !free[n] {
			e.cursor = n
			f, _, err := bufferpool.Pin(key(fd, n), pio, false)
			if err != nil {
				return 0, nil, err
			}
			return n, f.Buf, nil
		}
		n++
	}
	e.cursor = n
	return 0, nil, pferr.New(pferr.EOF, "pf.GetNextPage")
}

// freeSet materializes the set of page numbers currently on the free
// list by walking it through the buffer pool rather than straight off
// disk, since a disposed page's next-link may still be sitting dirty in
// a frame and not yet written back.
func freeSet(fd FD, e *openFile) (map[int32]bool, error) {
	set := make(map[int32]bool)
	cur := e.header.FirstFreePage
	for cur != -1 {
		set[cur] = true
		f, _, err := bufferpool.Pin(key(fd, cur), pio, false)
		if err != nil {
			return nil, err
		}
		next := bx.I32At(f.Buf, 0)
		if err := bufferpool.Unpin(key(fd, cur), false); err != nil {
			return nil, err
		}
		cur = next
	}
	return set, nil
}

// onFreeList reports whether n is currently on fd's free list.
func onFreeList(fd FD, e *openFile, n int32) bool {
	set, err := freeSet(fd, e)
	if err != nil {
		return false
	}
	return set[n]
}

// AllocPage implements alloc_page (4.4): pop the free list if non-empty,
// otherwise extend the file by one page.
func AllocPage(fd FD) (int32, []byte, error) {
	e, err := ft.get(fd)
	if err != nil {
		return 0, nil, err
	}

	if e.header.FirstFreePage != -1 {
		n := e.header.FirstFreePage
		f, _, err := bufferpool.Pin(key(fd, n), pio, false)
		if err != nil {
			return 0, nil, err
		}
		next := bx.I32At(f.Buf, 0)
		e.header.FirstFreePage = next
		e.headerDirty = true
		for i := range f.Buf {
			f.Buf[i] = 0
		}
		if err := bufferpool.MarkDirty(key(fd, n)); err != nil {
			return 0, nil, err
		}
		return n, f.Buf, nil
	}

	n := int32(e.header.NumPages)
	e.header.NumPages++
	e.headerDirty = true
	f, _, err := bufferpool.Pin(key(fd, n), pio, true)
	if err != nil {
		e.header.NumPages--
		return 0, nil, err
	}
	if err := bufferpool.MarkDirty(key(fd, n)); err != nil {
		return 0, nil, err
	}
	return n, f.Buf, nil
}

// DisposePage implements dispose_page (4.4): push n onto the head of the
// free list, threading the previous head into n's page body.
func DisposePage(fd FD, n int32) error {
	e, err := ft.get(fd)
	if err != nil {
		return err
	}
	if n < 0 || uint32(n) >= e.header.NumPages {
		return pferr.New(pferr.InvalidPage, "pf.DisposePage")
	}
	if bufferpool.IsPinned(key(fd, n)) {
		return pferr.New(pferr.PageFixed, "pf.DisposePage")
	}
	if onFreeList(fd, e, n) {
		return pferr.New(pferr.PageFree, "pf.DisposePage")
	}

	f, _, err := bufferpool.Pin(key(fd, n), pio, false)
	if err != nil {
		return err
	}
	bx.PutI32At(f.Buf, 0, e.header.FirstFreePage)
	e.header.FirstFreePage = n
	e.headerDirty = true
	if err := bufferpool.MarkDirty(key(fd, n)); err != nil {
		return err
	}
	return bufferpool.Unpin(key(fd, n), true)
}

// UnfixPage implements unfix_page (4.4), i.e. unpin.
func UnfixPage(fd FD, n int32, dirty bool) error {
	return bufferpool.Unpin(key(fd, n), dirty)
}

// MarkDirty implements mark_dirty (4.4).
func MarkDirty(fd FD, n int32) error {
	return bufferpool.MarkDirty(key(fd, n))
}

// ResetStats zeroes the three I/O counters.
func ResetStats() { bufferpool.ResetStats() }

// GetStats returns a snapshot of the counters.
func GetStats() bufferpool.Stats { return bufferpool.GetStats() }
