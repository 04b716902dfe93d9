package pf

// FileHandle binds the package-level PF operations to one open file, so
// callers (RHF) don't have to thread an FD through every call. It is the
// view-style wrapper the teacher used to bind a shared pool to a single
// relation, adapted here to bind the package-level file table to a
// single fd.
type FileHandle struct {
	fd FD
}

// Open opens name and returns a FileHandle bound to it.
func Open(name string) (FileHandle, error) {
	fd, err := OpenFile(name)
	return FileHandle{fd: fd}, err
}

func (h FileHandle) FD() FD { return h.fd }

func (h FileHandle) Close() error                 { return CloseFile(h.fd) }
func (h FileHandle) GetThisPage(n int32) ([]byte, error) { return GetThisPage(h.fd, n) }
func (h FileHandle) GetFirstPage() (int32, []byte, error) { return GetFirstPage(h.fd) }
func (h FileHandle) GetNextPage(cursor int32) (int32, []byte, error) {
	return GetNextPage(h.fd, cursor)
}
func (h FileHandle) AllocPage() (int32, []byte, error) { return AllocPage(h.fd) }
func (h FileHandle) DisposePage(n int32) error          { return DisposePage(h.fd, n) }
func (h FileHandle) UnfixPage(n int32, dirty bool) error {
	return UnfixPage(h.fd, n, dirty)
}
func (h FileHandle) MarkDirty(n int32) error { return MarkDirty(h.fd, n) }
