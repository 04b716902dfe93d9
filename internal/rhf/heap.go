package rhf

import (
	"errors"
	"log/slog"

	"github.com/nvx/pfrhf/internal/pf"
	"github.com/nvx/pfrhf/internal/pferr"
)

// Heap is one open RHF file: record insert/get/delete/scan over the PF
// pages behind h.
type Heap struct {
	h pf.FileHandle
}

// Create makes a new, empty heap file.
func Create(name string) error { return pf.CreateFile(name) }

// Destroy removes the host file backing name.
func Destroy(name string) error { return pf.DestroyFile(name) }

// Open opens an existing heap file.
func Open(name string) (*Heap, error) {
	h, err := pf.Open(name)
	if err != nil {
		return nil, err
	}
	return &Heap{h: h}, nil
}

// Close flushes and closes the underlying PF file.
func (t *Heap) Close() error { return t.h.Close() }

// Insert implements insert_record (4.5): find a page with room (scanning
// in file order, allocating a fresh one if none fits), place the record,
// and return its RID.
func (t *Heap) Insert(record []byte) (RID, error) {
	if len(record) > maxRecordSize() {
		return RID{}, pferr.New(pferr.RHFPageFull, "rhf.Insert")
	}

	n, buf, err := t.h.GetFirstPage()
	for err == nil {
		p := wrap(buf)
		if p.fits(len(record)) {
			slot := p.insert(record)
			if uerr := t.h.UnfixPage(n, true); uerr != nil {
				return RID{}, uerr
			}
			return RID{Page: n, Slot: uint16(slot)}, nil
		}
		if uerr := t.h.UnfixPage(n, false); uerr != nil {
			return RID{}, uerr
		}
		n, buf, err = t.h.GetNextPage(n)
	}
	if err != nil && !errors.Is(err, pferr.ErrEOF) {
		return RID{}, err
	}

	n, buf, err = t.h.AllocPage()
	if err != nil {
		return RID{}, err
	}
	p := wrap(buf)
	p.initEmpty()
	slot := p.insert(record)
	if err := t.h.UnfixPage(n, true); err != nil {
		return RID{}, err
	}
	slog.Debug("rhf: inserted record on fresh page", "page", n, "slot", slot, "len", len(record))
	return RID{Page: n, Slot: uint16(slot)}, nil
}

// Get implements get_record (4.5).
func (t *Heap) Get(rid RID) ([]byte, error) {
	buf, err := t.h.GetThisPage(rid.Page)
	if err != nil {
		return nil, err
	}
	defer t.h.UnfixPage(rid.Page, false)

	p := wrap(buf)
	if int(rid.Slot) >= p.numSlots() {
		return nil, pferr.New(pferr.RHFInvalidRID, "rhf.Get")
	}
	raw, ok := p.read(int(rid.Slot))
	if !ok {
		return nil, pferr.New(pferr.RHFNoRecord, "rhf.Get")
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Delete implements delete_record (4.5): tombstone the slot and thread
// it onto the page's free-slot chain.
func (t *Heap) Delete(rid RID) error {
	buf, err := t.h.GetThisPage(rid.Page)
	if err != nil {
		return err
	}

	p := wrap(buf)
	if int(rid.Slot) >= p.numSlots() {
		_ = t.h.UnfixPage(rid.Page, false)
		return pferr.New(pferr.RHFInvalidRID, "rhf.Delete")
	}
	if p.isTombstone(int(rid.Slot)) {
		_ = t.h.UnfixPage(rid.Page, false)
		return pferr.New(pferr.RHFNoRecord, "rhf.Delete")
	}
	p.delete(int(rid.Slot))
	return t.h.UnfixPage(rid.Page, true)
}

// StartScan begins a new scan over every live record in the heap.
func (t *Heap) StartScan() *Scan {
	return &Scan{h: t.h, state: scanIdle, cursor: -1}
}
