package rhf

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvx/pfrhf/internal/bufferpool"
	"github.com/nvx/pfrhf/internal/pf"
	"github.com/nvx/pfrhf/internal/pferr"
)

func newHeap(t *testing.T, capacity int) *Heap {
	t.Helper()
	bufferpool.Reset()
	pf.Init(capacity, bufferpool.LRU)

	path := filepath.Join(t.TempDir(), "heap.pf")
	require.NoError(t, Create(path))
	h, err := Open(path)
	require.NoError(t, err)
	return h
}

func TestInsertGetRoundTrip(t *testing.T) {
	h := newHeap(t, 10)
	defer h.Close()

	rid, err := h.Insert([]byte("hello world"))
	require.NoError(t, err)

	got, err := h.Get(rid)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), got)
}

func TestDeleteIsIdempotentFailure(t *testing.T) {
	h := newHeap(t, 10)
	defer h.Close()

	rid, err := h.Insert([]byte("to be deleted"))
	require.NoError(t, err)

	require.NoError(t, h.Delete(rid))
	err = h.Delete(rid)
	require.ErrorIs(t, err, pferr.ErrRHFNoRecord)

	_, err = h.Get(rid)
	require.ErrorIs(t, err, pferr.ErrRHFNoRecord)
}

func TestGetInvalidRID(t *testing.T) {
	h := newHeap(t, 10)
	defer h.Close()

	rid, err := h.Insert([]byte("x"))
	require.NoError(t, err)

	bad := RID{Page: rid.Page, Slot: rid.Slot + 50}
	_, err = h.Get(bad)
	require.ErrorIs(t, err, pferr.ErrRHFInvalidRID)
}

func TestInsertRecordTooLargeFails(t *testing.T) {
	h := newHeap(t, 10)
	defer h.Close()

	big := make([]byte, maxRecordSize()+1)
	_, err := h.Insert(big)
	require.ErrorIs(t, err, pferr.ErrRHFPageFull)
}

// TestThousandRecordInsertScanDelete mirrors scenario 4: insert 1000
// variable-length records, scan -> 1000, delete all even-ID records,
// scan -> 500 odd-ID records.
func TestThousandRecordInsertScanDelete(t *testing.T) {
	h := newHeap(t, 20)
	defer h.Close()

	const total = 1000
	rids := make([]RID, total)
	for i := 0; i < total; i++ {
		length := 18 + (i % 41) // [18,58]
		body := make([]byte, length)
		copy(body, fmt.Sprintf("rec-%d", i))
		rid, err := h.Insert(body)
		require.NoError(t, err)
		rids[i] = rid
	}

	count := 0
	sc := h.StartScan()
	for {
		_, _, err := sc.Next()
		if err != nil {
			require.ErrorIs(t, err, pferr.ErrRHFEOF)
			break
		}
		count++
	}
	require.NoError(t, sc.End())
	require.Equal(t, total, count)

	for i := 0; i < total; i += 2 {
		require.NoError(t, h.Delete(rids[i]))
	}

	count = 0
	sc = h.StartScan()
	for {
		body, _, err := sc.Next()
		if err != nil {
			require.ErrorIs(t, err, pferr.ErrRHFEOF)
			break
		}
		count++
		require.Contains(t, string(body), "rec-")
	}
	require.NoError(t, sc.End())
	require.Equal(t, total/2, count)
}

func TestScanEmptyHeapIsImmediatelyDone(t *testing.T) {
	h := newHeap(t, 10)
	defer h.Close()

	sc := h.StartScan()
	_, _, err := sc.Next()
	require.ErrorIs(t, err, pferr.ErrRHFEOF)
	require.NoError(t, sc.End())
}
