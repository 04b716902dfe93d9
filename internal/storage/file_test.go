package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvx/pfrhf/internal/pferr"
)

func TestCreateOpenCloseDestroy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pf")

	require.NoError(t, Create(path))

	// a second create on the same name is FILE_OPEN
	err := Create(path)
	require.ErrorIs(t, err, pferr.ErrFileOpen)

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, Destroy(path))
}

func TestReadPageAtEOFReturnsEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pf")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	dst := make([]byte, PageSize)
	err = f.ReadPage(0, dst)
	require.ErrorIs(t, err, pferr.ErrEOF)
}

func TestWriteThenReadPageRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pf")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	src := make([]byte, PageSize)
	for i := range src {
		src[i] = byte(i)
	}
	require.NoError(t, f.WritePage(3, src))

	dst := make([]byte, PageSize)
	require.NoError(t, f.ReadPage(3, dst))
	require.Equal(t, src, dst)

	// page 0 was never written: it lies inside the file body that writing
	// page 3 created, so it reads back in full as zeros rather than as EOF.
	zero := make([]byte, PageSize)
	err = f.ReadPage(0, zero)
	require.NoError(t, err)
	for _, b := range zero {
		require.Zero(t, b)
	}
}

func TestHeaderRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pf")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	hdr := make([]byte, HeaderSize)
	hdr[0] = 7
	require.NoError(t, f.WriteHeader(hdr))

	out := make([]byte, HeaderSize)
	require.NoError(t, f.ReadHeader(out))
	require.Equal(t, hdr, out)
}
