package jpegutil

import "encoding/binary"

// byteWriter is an append-only builder for the EXIF marker buffer.
// Out-of-line payloads are registered while their directory entry is written
// and flushed after both IFDs, which keeps the directory area and the data
// area derived from the same entry list.
// Note that this is not thread safe.
type byteWriter struct {
	buf      []byte
	deferred []deferredPayload
}

// deferredPayload is an out-of-line payload whose 4-byte offset slot at pos
// gets patched once the payload's final position is known.
type deferredPayload struct {
	pos     int
	payload []byte
}

func newByteWriter(capacity int) *byteWriter {
	return &byteWriter{buf: make([]byte, 0, capacity)}
}

func (w *byteWriter) bytes() []byte {
	return w.buf
}

func (w *byteWriter) raw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *byteWriter) put2(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *byteWriter) put4(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// inline writes a payload of up to 4 bytes directly into the entry's value
// slot, zero padded on the right.
func (w *byteWriter) inline(payload []byte) {
	var slot [4]byte
	copy(slot[:], payload)
	w.buf = append(w.buf, slot[:]...)
}

// outOfLine reserves the entry's 4-byte offset slot and defers the payload
// until flush.
func (w *byteWriter) outOfLine(payload []byte) {
	w.deferred = append(w.deferred, deferredPayload{pos: len(w.buf), payload: payload})
	w.buf = append(w.buf, 0, 0, 0, 0)
}

// tiffOffset is the current write position relative to the TIFF header.
func (w *byteWriter) tiffOffset() uint32 {
	return uint32(len(w.buf) - exifSignatureLen)
}

// flush appends all deferred payloads in the order they were referenced,
// 4-byte aligned relative to the TIFF header, and patches each offset slot.
func (w *byteWriter) flush() {
	for _, d := range w.deferred {
		for w.tiffOffset()&0x03 != 0 {
			w.buf = append(w.buf, 0)
		}
		binary.BigEndian.PutUint32(w.buf[d.pos:], w.tiffOffset())
		w.buf = append(w.buf, d.payload...)
	}
	w.deferred = w.deferred[:0]
}
