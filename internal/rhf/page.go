// Package rhf is the RHF slotted heap: record insert/get/delete/scan
// over PF pages, addressed by stable (page,slot) record identifiers.
package rhf

import (
	"github.com/nvx/pfrhf/internal/bx"
	"github.com/nvx/pfrhf/internal/storage"
)

// Slotted page layout (section 3):
//
//	[PageHeader][Slot 0][Slot 1]...[Slot N-1] ... free ... [Record k]...[Record 0]
//	^                                         ^                                  ^
//	0                          slot_array_end free_space_ptr                     P
//
// PageHeader = {num_slots uint16, free_space_ptr uint16, next_free_slot int16}
// Slot       = {record_offset int16, record_length int16}; tombstones have
// record_length == -1, and the tombstone's record_offset field doubles as
// the next link in the per-page free-slot chain.
const (
	pageHeaderSize = 6
	slotSize       = 4

	offNumSlots     = 0
	offFreeSpacePtr = 2
	offNextFreeSlot = 4
	tombstoneLength = -1
)

type slottedPage struct {
	buf []byte
}

func wrap(buf []byte) slottedPage { return slottedPage{buf: buf} }

// initEmpty sets up a freshly allocated page as an empty slotted page.
func (p slottedPage) initEmpty() {
	p.setNumSlots(0)
	p.setFreeSpacePtr(storage.PageSize)
	p.setNextFreeSlot(-1)
}

func (p slottedPage) numSlots() int         { return int(bx.U16At(p.buf, offNumSlots)) }
func (p slottedPage) setNumSlots(n int)     { bx.PutU16At(p.buf, offNumSlots, uint16(n)) }
func (p slottedPage) freeSpacePtr() int     { return int(bx.U16At(p.buf, offFreeSpacePtr)) }
func (p slottedPage) setFreeSpacePtr(n int) { bx.PutU16At(p.buf, offFreeSpacePtr, uint16(n)) }
func (p slottedPage) nextFreeSlot() int16   { return bx.I16At(p.buf, offNextFreeSlot) }
func (p slottedPage) setNextFreeSlot(n int16) {
	bx.PutI16At(p.buf, offNextFreeSlot, n)
}

func slotOff(i int) int { return pageHeaderSize + i*slotSize }

func (p slottedPage) slotOffset(i int) int16 { return bx.I16At(p.buf, slotOff(i)) }
func (p slottedPage) slotLength(i int) int16 { return bx.I16At(p.buf, slotOff(i)+2) }
func (p slottedPage) setSlot(i int, offset, length int16) {
	bx.PutI16At(p.buf, slotOff(i), offset)
	bx.PutI16At(p.buf, slotOff(i)+2, length)
}

func (p slottedPage) isTombstone(i int) bool { return p.slotLength(i) == tombstoneLength }

// usedDirectoryBytes is sizeof(PageHeader) + num_slots*sizeof(Slot).
func (p slottedPage) usedDirectoryBytes() int {
	return pageHeaderSize + p.numSlots()*slotSize
}

// freeBytes is the space available for a new record body, not accounting
// for whether a new slot entry must also be allocated.
func (p slottedPage) freeBytes() int {
	return p.freeSpacePtr() - p.usedDirectoryBytes()
}

// fits reports whether a record of length bytes can be inserted into this
// page right now, including the directory-growth cost when no tombstone
// is available to reuse.
func (p slottedPage) fits(length int) bool {
	need := length
	if p.nextFreeSlot() == -1 {
		need += slotSize
	}
	return p.freeBytes() >= need
}

// maxRecordSize is the largest record that could ever fit on an empty
// page: P - sizeof(PageHeader) - sizeof(Slot).
func maxRecordSize() int {
	return storage.PageSize - pageHeaderSize - slotSize
}

// insert appends record into the page, reusing a tombstoned slot if the
// free-slot chain is non-empty. Caller must have already checked fits().
func (p slottedPage) insert(record []byte) int {
	var slot int
	if next := p.nextFreeSlot(); next != -1 {
		slot = int(next)
		p.setNextFreeSlot(p.slotOffset(slot)) // tombstone's offset field holds the link
	} else {
		slot = p.numSlots()
		p.setNumSlots(slot + 1)
	}

	newFree := p.freeSpacePtr() - len(record)
	copy(p.buf[newFree:p.freeSpacePtr()], record)
	p.setFreeSpacePtr(newFree)
	p.setSlot(slot, int16(newFree), int16(len(record)))
	return slot
}

// read returns the record bytes for slot, or ok=false if out of range or
// tombstoned.
func (p slottedPage) read(slot int) ([]byte, bool) {
	if slot < 0 || slot >= p.numSlots() {
		return nil, false
	}
	if p.isTombstone(slot) {
		return nil, false
	}
	off := p.slotOffset(slot)
	length := p.slotLength(slot)
	return p.buf[off : int(off)+int(length)], true
}

// delete tombstones slot, threading it onto the free-slot chain. The
// record body bytes are left in place (no compaction).
func (p slottedPage) delete(slot int) {
	p.setSlot(slot, int16(p.nextFreeSlot()), tombstoneLength)
	p.setNextFreeSlot(int16(slot))
}
