// Package bufferpool is the PF buffer pool: a fixed-capacity array of page
// frames with a hash index keyed by (file,page) and a recency-ordered
// replacement list of unpinned frames. It owns no knowledge of file
// layout or record formats — callers supply a PageIO to read/write page
// bodies and a header-dirty callback is the caller's responsibility.
package bufferpool

import "github.com/nvx/pfrhf/internal/storage"

// Key identifies a resident page uniquely across every open file.
type Key struct {
	FileID  int
	PageNum int32
}

// Frame is one buffer-pool slot. Its state is exactly the state machine
// described for the PF layer: Pin==0 && valid ⇒ on the replacement list;
// Pin==0 && !valid ⇒ on the free-frame pool; Pin>0 ⇒ neither.
type Frame struct {
	Key   Key
	Valid bool
	Pin   int
	Dirty bool
	Buf   []byte
}

func newFrame() *Frame {
	return &Frame{Buf: make([]byte, storage.PageSize)}
}
