package bufferpool

import "container/list"

// Strategy selects which end of the recency list an eviction draws from.
type Strategy int

const (
	LRU Strategy = iota
	MRU
)

func (s Strategy) String() string {
	if s == MRU {
		return "MRU"
	}
	return "LRU"
}

// replacer is the ordered sequence of unpinned frames, ordered by time of
// last release: the head is the most-recently-released frame. LRU evicts
// from the tail, MRU evicts from the head. Strategy can be swapped
// between operations; it only affects the next eviction.
//
// This is the teacher's LRUManager generalized to pick either end of the
// list and keyed by frame index instead of an opaque value. No mutex: the
// PF layer is single-threaded by design.
type replacer struct {
	strategy Strategy
	list     *list.List
	elems    map[int]*list.Element // frame index -> its node
}

func newReplacer(strategy Strategy) *replacer {
	return &replacer{
		strategy: strategy,
		list:     list.New(),
		elems:    make(map[int]*list.Element),
	}
}

// touch moves (or inserts) frameIdx to the head of the recency list, i.e.
// marks it as just released.
func (r *replacer) touch(frameIdx int) {
	if e, ok := r.elems[frameIdx]; ok {
		r.list.MoveToFront(e)
		return
	}
	r.elems[frameIdx] = r.list.PushFront(frameIdx)
}

// remove takes frameIdx off the replacement list, e.g. because it was
// just pinned.
func (r *replacer) remove(frameIdx int) {
	if e, ok := r.elems[frameIdx]; ok {
		r.list.Remove(e)
		delete(r.elems, frameIdx)
	}
}

// evict picks a victim frame index per strategy and removes it from the
// list. Returns ok=false if the list is empty.
func (r *replacer) evict() (frameIdx int, ok bool) {
	var e *list.Element
	if r.strategy == MRU {
		e = r.list.Front()
	} else {
		e = r.list.Back()
	}
	if e == nil {
		return 0, false
	}
	idx := e.Value.(int)
	r.list.Remove(e)
	delete(r.elems, idx)
	return idx, true
}

func (r *replacer) size() int {
	return r.list.Len()
}
