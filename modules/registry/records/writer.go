package records

import (
	"encoding/binary"

	"github.com/gaze-network/uint128"
)

// writer builds account byte layouts, mirroring Cursor field by field. Used
// by record Marshal methods; the registry program is the writer of record,
// this exists for fixtures and cache serialization.
type writer struct {
	buf []byte
}

func newWriter(disc [8]byte) *writer {
	return &writer{buf: append([]byte{}, disc[:]...)}
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) i64(v int64) {
	w.u64(uint64(v))
}

func (w *writer) u128(v uint128.Uint128) {
	var b [16]byte
	v.PutBytes(b[:])
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) pubkey(pk Pubkey) {
	w.buf = append(w.buf, pk[:]...)
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) bytes() []byte {
	return w.buf
}
