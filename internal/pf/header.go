package pf

import (
	"github.com/nvx/pfrhf/internal/bx"
	"github.com/nvx/pfrhf/internal/storage"
)

// fileHeader is the in-memory copy of a PF file's persistent header:
// total page count and the head of the free-page list (-1 if empty).
type fileHeader struct {
	NumPages      uint32
	FirstFreePage int32
}

func (h fileHeader) encode() []byte {
	buf := make([]byte, storage.HeaderSize)
	bx.PutU32At(buf, 0, h.NumPages)
	bx.PutI32At(buf, 4, h.FirstFreePage)
	return buf
}

func decodeHeader(buf []byte) fileHeader {
	return fileHeader{
		NumPages:      bx.U32At(buf, 0),
		FirstFreePage: bx.I32At(buf, 4),
	}
}
