package rhf

import "fmt"

// RID is a record identifier: stable across inserts/deletes on other
// slots, for the lifetime of the record.
type RID struct {
	Page int32
	Slot uint16
}

func (r RID) String() string {
	return fmt.Sprintf("(%d,%d)", r.Page, r.Slot)
}
