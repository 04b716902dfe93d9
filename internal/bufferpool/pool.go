package bufferpool

import (
	"fmt"
	"log/slog"

	"github.com/nvx/pfrhf/internal/pferr"
)

var logPrefix = "bufferpool: "

const DefaultCapacity = 40

// PageIO is the narrow slice of the file table that the buffer pool needs
// to fill and flush frames. It is implemented by package pf; bufferpool
// itself has no notion of open files or headers.
type PageIO interface {
	ReadPage(fileID int, pageNum int32, dst []byte) error
	WritePage(fileID int, pageNum int32, src []byte) error
}

// Stats holds the three process-wide I/O counters.
type Stats struct {
	Logical        int64
	PhysicalReads  int64
	PhysicalWrites int64
}

// HitRate is (logical-physical_reads)/logical, or 0 when logical is 0.
func (s Stats) HitRate() float64 {
	if s.Logical == 0 {
		return 0
	}
	return float64(s.Logical-s.PhysicalReads) / float64(s.Logical)
}

func (s Stats) String() string {
	return fmt.Sprintf("logical=%d physical_reads=%d physical_writes=%d",
		s.Logical, s.PhysicalReads, s.PhysicalWrites)
}

// Pool is the process-wide buffer pool singleton described in section 9 of
// the design: capacity and strategy are set before Init, Init allocates
// frames and resets counters, and Reset is a test-only teardown hook.
type Pool struct {
	capacity int
	strategy Strategy
	initDone bool

	frames   []*Frame
	free     []int // indices of Frame with Valid==false
	table    map[Key]int
	replacer *replacer
	stats    Stats
}

var global = &Pool{capacity: DefaultCapacity, strategy: LRU}

// Configure sets capacity and strategy. Must be called before Init;
// capacity changes after Init are not supported. Strategy may be changed
// at any time via SetStrategy.
func Configure(capacity int, strategy Strategy) {
	if global.initDone {
		slog.Warn(logPrefix + "Configure called after Init, capacity change ignored")
		global.strategy = strategy
		return
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	global.capacity = capacity
	global.strategy = strategy
}

// SetStrategy swaps the replacement strategy; it takes effect on the next
// eviction.
func SetStrategy(strategy Strategy) {
	global.strategy = strategy
	global.replacer.strategy = strategy
}

// Init allocates the frame array and resets statistics. Calling Init
// again is a no-op (idempotent), matching the single configure->init
// lifecycle described for the PF layer.
func Init() {
	if global.initDone {
		return
	}
	global.frames = make([]*Frame, global.capacity)
	global.free = make([]int, global.capacity)
	for i := range global.frames {
		global.frames[i] = newFrame()
		global.free[i] = global.capacity - 1 - i // pop from end -> ascending order
	}
	global.table = make(map[Key]int)
	global.replacer = newReplacer(global.strategy)
	global.stats = Stats{}
	global.initDone = true
	slog.Debug(logPrefix+"Init", "capacity", global.capacity, "strategy", global.strategy)
}

// Reset tears the singleton down entirely; test-only hook (section 9).
func Reset() {
	global = &Pool{capacity: DefaultCapacity, strategy: LRU}
}

// IsPinned reports whether key is currently resident with a non-zero pin
// count, without itself pinning the page. Used by callers (PF's
// dispose_page) that must refuse an operation on an already-pinned page.
func IsPinned(key Key) bool {
	p := global
	idx, ok := p.table[key]
	if !ok {
		return false
	}
	return p.frames[idx].Pin > 0
}

// Resident reports whether key is currently resident in the pool at all.
func Resident(key Key) bool {
	_, ok := global.table[key]
	return ok
}

// Pin implements the buffer pool pin algorithm (4.2): hash lookup, then
// free-frame or victim selection, then fill. zeroFill is set by the
// caller (PF Page Manager) when the page is freshly allocated beyond
// current EOF and should not be read from disk.
func Pin(key Key, io PageIO, zeroFill bool) (*Frame, bool, error) {
	p := global
	p.stats.Logical++

	if idx, ok := p.table[key]; ok {
		f := p.frames[idx]
		if f.Pin == 0 {
			p.replacer.remove(idx)
		}
		f.Pin++
		return f, true, nil
	}

	idx, err := p.acquireVictim(io)
	if err != nil {
		return nil, false, err
	}

	f := p.frames[idx]
	f.Key = key
	f.Valid = true
	f.Pin = 1
	f.Dirty = false

	if zeroFill {
		for i := range f.Buf {
			f.Buf[i] = 0
		}
	} else {
		if err := io.ReadPage(key.FileID, key.PageNum, f.Buf); err != nil {
			// Leave the frame unindexed and return it to the free pool;
			// the caller never sees it.
			f.Valid = false
			p.free = append(p.free, idx)
			return nil, false, err
		}
		p.stats.PhysicalReads++
	}

	p.table[key] = idx
	return f, false, nil
}

// acquireVictim returns a frame index ready to be filled: either a free
// frame, or an evicted, written-back, unindexed one.
func (p *Pool) acquireVictim(io PageIO) (int, error) {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return idx, nil
	}

	idx, ok := p.replacer.evict()
	if !ok {
		return 0, pferr.New(pferr.NoBuffer, "bufferpool.Pin")
	}
	victim := p.frames[idx]
	if victim.Dirty {
		if err := io.WritePage(victim.Key.FileID, victim.Key.PageNum, victim.Buf); err != nil {
			return 0, err
		}
		p.stats.PhysicalWrites++
		victim.Dirty = false
	}
	delete(p.table, victim.Key)
	victim.Valid = false
	return idx, nil
}

// Unpin implements unpin(file,page,dirty_hint) (4.2).
func Unpin(key Key, dirtyHint bool) error {
	p := global
	idx, ok := p.table[key]
	if !ok {
		return pferr.New(pferr.PageNotInBuf, "bufferpool.Unpin")
	}
	f := p.frames[idx]
	if f.Pin == 0 {
		return pferr.New(pferr.PageUnfixed, "bufferpool.Unpin")
	}
	if dirtyHint {
		f.Dirty = true
	}
	f.Pin--
	if f.Pin == 0 {
		p.replacer.touch(idx)
	}
	return nil
}

// MarkDirty implements mark_dirty (4.2): sets the dirty flag on a
// resident, pinned frame. Moving it to the MRU end of the replacement
// list is vacuous at call time since pinned frames are never on the
// list; it takes effect naturally once Unpin inserts the frame at the
// head.
func MarkDirty(key Key) error {
	p := global
	idx, ok := p.table[key]
	if !ok {
		return pferr.New(pferr.PageNotInBuf, "bufferpool.MarkDirty")
	}
	f := p.frames[idx]
	if f.Pin == 0 {
		return pferr.New(pferr.PageUnfixed, "bufferpool.MarkDirty")
	}
	f.Dirty = true
	return nil
}

// FlushFile writes back every dirty frame owned by fileID and returns
// them to the free-frame pool. Fails with PAGE_FIXED if any owned frame
// is still pinned; the caller must unpin first.
func FlushFile(fileID int, io PageIO) error {
	p := global
	for key, idx := range p.table {
		if key.FileID != fileID {
			continue
		}
		f := p.frames[idx]
		if f.Pin != 0 {
			return pferr.New(pferr.PageFixed, "bufferpool.FlushFile")
		}
	}
	for key, idx := range p.table {
		if key.FileID != fileID {
			continue
		}
		f := p.frames[idx]
		if f.Dirty {
			if err := io.WritePage(key.FileID, key.PageNum, f.Buf); err != nil {
				return err
			}
			p.stats.PhysicalWrites++
			f.Dirty = false
		}
		p.replacer.remove(idx)
		delete(p.table, key)
		f.Valid = false
		p.free = append(p.free, idx)
	}
	return nil
}

// ResetStats zeroes the three counters.
func ResetStats() { global.stats = Stats{} }

// GetStats returns a snapshot of the counters.
func GetStats() Stats { return global.stats }
