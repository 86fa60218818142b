package wire

import (
	"encoding/binary"
	"math"
)

// nullLength is the string length prefix that marks a null string on the
// wire, distinct from an empty string (length 0).
const nullLength = int32(-1)

// Buffer wraps a byte sequence with a read cursor, or accumulates bytes
// when used for encoding. All multi-byte values are big-endian, matching
// the network byte order of the protocol.
type Buffer struct {
	buf []byte
	off int
}

// NewReader returns a Buffer positioned at the start of data for decoding.
func NewReader(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// NewWriter returns an empty Buffer for encoding.
func NewWriter() *Buffer {
	return &Buffer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated bytes of a writer buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Offset returns the current read cursor position.
func (b *Buffer) Offset() int {
	return b.off
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.buf) - b.off
}

// Exhausted reports whether all bytes have been consumed. Variant readers
// use this to treat missing schema-gated tail fields as absent.
func (b *Buffer) Exhausted() bool {
	return b.off >= len(b.buf)
}

func (b *Buffer) take(n int) ([]byte, error) {
	if b.Remaining() < n {
		return nil, &TruncatedBufferError{Offset: b.off, Need: n, Have: b.Remaining()}
	}
	p := b.buf[b.off : b.off+n]
	b.off += n
	return p, nil
}

func (b *Buffer) ReadU8() (uint8, error) {
	p, err := b.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) ReadU16() (uint16, error) {
	p, err := b.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (b *Buffer) ReadU32() (uint32, error) {
	p, err := b.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (b *Buffer) ReadU64() (uint64, error) {
	p, err := b.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (b *Buffer) ReadI32() (int32, error) {
	v, err := b.ReadU32()
	return int32(v), err
}

func (b *Buffer) ReadI64() (int64, error) {
	v, err := b.ReadU64()
	return int64(v), err
}

func (b *Buffer) ReadF64() (float64, error) {
	v, err := b.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBool reads one byte; any nonzero value is true.
func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadU8()
	return v != 0, err
}

// ReadString reads a 32-bit length prefix followed by that many bytes of
// UTF-8 text. A length of -1 decodes as the null string.
func (b *Buffer) ReadString() (QString, error) {
	start := b.off
	n, err := b.ReadI32()
	if err != nil {
		return QString{}, err
	}
	if n == nullLength {
		return QString{Null: true}, nil
	}
	if n < 0 || int(n) > b.Remaining() {
		return QString{}, &InvalidLengthError{Offset: start, Length: n, Remaining: b.Remaining()}
	}
	p, err := b.take(int(n))
	if err != nil {
		return QString{}, err
	}
	return QString{Value: string(p)}, nil
}

func (b *Buffer) WriteU8(v uint8) {
	b.buf = append(b.buf, v)
}

func (b *Buffer) WriteU16(v uint16) {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
}

func (b *Buffer) WriteU32(v uint32) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
}

func (b *Buffer) WriteU64(v uint64) {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
}

func (b *Buffer) WriteI32(v int32) {
	b.WriteU32(uint32(v))
}

func (b *Buffer) WriteI64(v int64) {
	b.WriteU64(uint64(v))
}

func (b *Buffer) WriteF64(v float64) {
	b.WriteU64(math.Float64bits(v))
}

func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteU8(1)
	} else {
		b.WriteU8(0)
	}
}

// WriteString mirrors ReadString, including the -1 convention for null.
func (b *Buffer) WriteString(s QString) {
	if s.Null {
		b.WriteI32(nullLength)
		return
	}
	b.WriteI32(int32(len(s.Value)))
	b.buf = append(b.buf, s.Value...)
}
