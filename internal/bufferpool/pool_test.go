package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvx/pfrhf/internal/pferr"
	"github.com/nvx/pfrhf/internal/storage"
)

// fakeIO is an in-memory PageIO stub standing in for the file table during
// buffer-pool unit tests, so these tests exercise only the pool's
// pin/evict/flush bookkeeping.
type fakeIO struct {
	pages map[int32][]byte
	reads int
}

func newFakeIO() *fakeIO { return &fakeIO{pages: make(map[int32][]byte)} }

func (f *fakeIO) ReadPage(fileID int, pageNum int32, dst []byte) error {
	f.reads++
	if buf, ok := f.pages[pageNum]; ok {
		copy(dst, buf)
		return nil
	}
	for i := range dst {
		dst[i] = 0
	}
	return nil
}

func (f *fakeIO) WritePage(fileID int, pageNum int32, src []byte) error {
	buf := make([]byte, storage.PageSize)
	copy(buf, src)
	f.pages[pageNum] = buf
	return nil
}

func TestPinMissThenHit(t *testing.T) {
	Reset()
	Configure(4, LRU)
	Init()
	io := newFakeIO()

	f1, hit, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	require.False(t, hit)
	require.NotNil(t, f1)

	f2, hit, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	require.True(t, hit)
	require.Same(t, f1, f2)
	require.Equal(t, 2, f1.Pin)

	stats := GetStats()
	require.Equal(t, int64(2), stats.Logical)
	require.Equal(t, int64(1), stats.PhysicalReads)
}

func TestUnpinErrors(t *testing.T) {
	Reset()
	Configure(4, LRU)
	Init()
	io := newFakeIO()

	err := Unpin(Key{FileID: 1, PageNum: 9}, false)
	require.ErrorIs(t, err, pferr.ErrPageNotInBuf)

	_, _, err = Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	require.NoError(t, Unpin(Key{FileID: 1, PageNum: 0}, false))

	err = Unpin(Key{FileID: 1, PageNum: 0}, false)
	require.ErrorIs(t, err, pferr.ErrPageUnfixed)
}

// TestLRUCyclicalScan mirrors scenario 1: buffer=5, file=7, two passes
// over pages 0..6. Every access misses because the working set exceeds
// capacity, so LRU offers no reuse across the cycle.
func TestLRUCyclicalScan(t *testing.T) {
	Reset()
	Configure(5, LRU)
	Init()
	io := newFakeIO()

	for pass := 0; pass < 2; pass++ {
		for pn := int32(0); pn < 7; pn++ {
			_, _, err := Pin(Key{FileID: 1, PageNum: pn}, io, false)
			require.NoError(t, err)
			require.NoError(t, Unpin(Key{FileID: 1, PageNum: pn}, false))
		}
	}

	stats := GetStats()
	require.Equal(t, int64(14), stats.Logical)
	require.Equal(t, int64(14), stats.PhysicalReads)
}

// TestMRUCyclicalScan mirrors scenario 2: with MRU, pass 1 evicts 4 for 5
// and then 5 for 6, so the second pass hits on pages 0..3 and 6 and misses
// only on 4 and 5 (each evicting the page released just before it).
func TestMRUCyclicalScan(t *testing.T) {
	Reset()
	Configure(5, MRU)
	Init()
	io := newFakeIO()

	for pass := 0; pass < 2; pass++ {
		for pn := int32(0); pn < 7; pn++ {
			_, _, err := Pin(Key{FileID: 1, PageNum: pn}, io, false)
			require.NoError(t, err)
			require.NoError(t, Unpin(Key{FileID: 1, PageNum: pn}, false))
		}
	}

	stats := GetStats()
	require.Equal(t, int64(14), stats.Logical)
	require.Equal(t, int64(9), stats.PhysicalReads)
}

// TestMarkDirtyAffectsEvictionOrder mirrors scenario 5.
func TestMarkDirtyAffectsEvictionOrder(t *testing.T) {
	Reset()
	Configure(3, LRU)
	Init()
	io := newFakeIO()

	for pn := int32(0); pn < 3; pn++ {
		_, _, err := Pin(Key{FileID: 1, PageNum: pn}, io, false)
		require.NoError(t, err)
	}
	for pn := int32(0); pn < 3; pn++ {
		require.NoError(t, Unpin(Key{FileID: 1, PageNum: pn}, false))
	}

	// Pin 3 evicts 0 (LRU tail).
	_, hit, err := Pin(Key{FileID: 1, PageNum: 3}, io, false)
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, Unpin(Key{FileID: 1, PageNum: 3}, false))

	// Re-pin 0 (miss, reloaded), mark it dirty, unpin dirty.
	f0, hit, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, MarkDirty(Key{FileID: 1, PageNum: 0}))
	require.True(t, f0.Dirty)
	require.NoError(t, Unpin(Key{FileID: 1, PageNum: 0}, true))

	// Pin 4 evicts 2, not 0: page 1 already went when 0 was reloaded, and
	// unpinning 0 put it at the head of the list.
	_, _, err = Pin(Key{FileID: 1, PageNum: 4}, io, false)
	require.NoError(t, err)

	_, hit, err = Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	require.True(t, hit, "page 0 should still be resident")
}

func TestNoBufferWhenAllPinned(t *testing.T) {
	Reset()
	Configure(1, LRU)
	Init()
	io := newFakeIO()

	_, _, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)

	_, _, err = Pin(Key{FileID: 1, PageNum: 1}, io, false)
	require.ErrorIs(t, err, pferr.ErrNoBuffer)
}

func TestFlushFileFailsWhenPinned(t *testing.T) {
	Reset()
	Configure(2, LRU)
	Init()
	io := newFakeIO()

	_, _, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)

	err = FlushFile(1, io)
	require.ErrorIs(t, err, pferr.ErrPageFixed)
}

func TestFlushFileWritesBackDirty(t *testing.T) {
	Reset()
	Configure(2, LRU)
	Init()
	io := newFakeIO()

	f, _, err := Pin(Key{FileID: 1, PageNum: 0}, io, false)
	require.NoError(t, err)
	f.Buf[0] = 42
	require.NoError(t, Unpin(Key{FileID: 1, PageNum: 0}, true))

	require.NoError(t, FlushFile(1, io))
	require.Equal(t, byte(42), io.pages[0][0])
}
