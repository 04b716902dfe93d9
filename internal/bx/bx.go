// Package bx holds small little-endian byte <-> integer helpers used to
// serialize fixed-width fields into page buffers (headers, slots, free
// list links) without reaching for encoding/binary's reader/writer
// plumbing at every call site.
package bx

import "encoding/binary"

var le = binary.LittleEndian

// --- unsigned: read/write at the start of b ---
func U16(b []byte) uint16       { return le.Uint16(b) }
func U32(b []byte) uint32       { return le.Uint32(b) }
func PutU16(b []byte, v uint16) { le.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { le.PutUint32(b, v) }

// --- signed aliases ---
func I16(b []byte) int16        { return int16(U16(b)) }
func I32(b []byte) int32        { return int32(U32(b)) }
func PutI16(b []byte, v int16)  { PutU16(b, uint16(v)) }
func PutI32(b []byte, v int32)  { PutU32(b, uint32(v)) }

// --- At variants: read/write at an offset into a larger buffer, the
// common pattern for page headers and slot arrays ---
func U16At(b []byte, off int) uint16       { return U16(b[off:]) }
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func I16At(b []byte, off int) int16        { return I16(b[off:]) }
func I32At(b []byte, off int) int32        { return I32(b[off:]) }
func PutU16At(b []byte, off int, v uint16) { PutU16(b[off:], v) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }
func PutI16At(b []byte, off int, v int16)  { PutI16(b[off:], v) }
func PutI32At(b []byte, off int, v int32)  { PutI32(b[off:], v) }
