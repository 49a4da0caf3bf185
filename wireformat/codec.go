// Package wireformat defines the binary wire format for messages crossing
// the plugin sandbox boundary. Every EngineCommand (guest to host) and
// EngineEvent (host to guest) is a tagged variant: one leading tag byte,
// then fixed-width little-endian fields, then any variable-length payload
// as a uint32 length prefix followed by bytes. These types and their
// Encode/Decode methods form the ABI contract between host and guest and
// must stay backward compatible once a tag is assigned.
package wireformat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// binWriter accumulates a message body after its tag byte has been written.
type binWriter struct {
	buf bytes.Buffer
}

func newBinWriter(tag uint8) *binWriter {
	w := &binWriter{}
	w.buf.WriteByte(tag)
	return w
}

func (w *binWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *binWriter) byte(v uint8) {
	w.buf.WriteByte(v)
}

func (w *binWriter) bytes(v []byte) {
	w.u32(uint32(len(v)))
	w.buf.Write(v)
}

func (w *binWriter) str(v string) {
	w.bytes([]byte(v))
}

func (w *binWriter) bytesOut() []byte {
	return w.buf.Bytes()
}

// binReader consumes a message body after its tag byte has been read.
type binReader struct {
	data []byte
	pos  int
}

func newBinReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) need(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("wireformat: truncated message: need %d bytes at offset %d, have %d", n, r.pos, len(r.data))
	}
	return nil
}

func (r *binReader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *binReader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *binReader) f32() (float32, error) {
	bits, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (r *binReader) byte() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *binReader) bytes() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return v, nil
}

func (r *binReader) str() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *binReader) finished() bool {
	return r.pos == len(r.data)
}
