package rhf

import (
	"errors"

	"github.com/nvx/pfrhf/internal/pf"
	"github.com/nvx/pfrhf/internal/pferr"
)

type scanState int

const (
	scanIdle scanState = iota
	scanHoldingPage
	scanDone
)

// Scan owns at most one pinned page at a time, walking every live record
// in page order. The state machine is exactly {Idle, HoldingPage, Done}
// from section 4.6.
type Scan struct {
	h      pf.FileHandle
	state  scanState
	cursor int32 // last page number returned by the PF iterator
	page   int32
	buf    []byte
	slot   int
}

// Next returns the next live record, or an RHF_EOF error (pferr.ErrRHFEOF)
// once the heap is exhausted.
func (s *Scan) Next() ([]byte, RID, error) {
	if s.state == scanDone {
		return nil, RID{}, pferr.New(pferr.RHFEOF, "rhf.Scan.Next")
	}

	for {
		if s.state == scanIdle {
			var n int32
			var buf []byte
			var err error
			if s.cursor == -1 {
				n, buf, err = s.h.GetFirstPage()
			} else {
				n, buf, err = s.h.GetNextPage(s.cursor)
			}
			if err != nil {
				if errors.Is(err, pferr.ErrEOF) {
					s.state = scanDone
					return nil, RID{}, pferr.New(pferr.RHFEOF, "rhf.Scan.Next")
				}
				return nil, RID{}, err
			}
			s.cursor = n
			s.page = n
			s.buf = buf
			s.slot = 0
			s.state = scanHoldingPage
		}

		p := wrap(s.buf)
		for s.slot < p.numSlots() {
			slot := s.slot
			s.slot++
			if p.isTombstone(slot) {
				continue
			}
			raw, _ := p.read(slot)
			out := make([]byte, len(raw))
			copy(out, raw)
			return out, RID{Page: s.page, Slot: uint16(slot)}, nil
		}

		if err := s.h.UnfixPage(s.page, false); err != nil {
			return nil, RID{}, err
		}
		s.state = scanIdle
	}
}

// End releases any held page. Safe to call when no page is held, and
// idempotent.
func (s *Scan) End() error {
	if s.state == scanHoldingPage {
		if err := s.h.UnfixPage(s.page, false); err != nil {
			return err
		}
	}
	s.state = scanDone
	return nil
}
