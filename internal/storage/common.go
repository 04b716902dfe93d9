// Package storage is the Block I/O component: a thin facade over the
// host file system that turns a single os.File into fixed-size,
// page-aligned reads and writes plus a small binary file header. It has
// no notion of buffering, pinning, or replacement — that lives one layer
// up, in package bufferpool/pf.
package storage

const (
	// PageSize is the fixed page size P used throughout the PF/RHF
	// layers.
	PageSize = 4096

	// HeaderSize is the fixed width, in bytes, of the on-disk file
	// header (NumPages uint32 + FirstFreePage int32, padded for future
	// fields). It is stable within a single file and across this
	// implementation.
	HeaderSize = 16

	FileMode0644 = 0o644
	FileMode0664 = 0o664
	FileMode0755 = 0o755
)
