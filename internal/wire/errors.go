package wire

import "fmt"

// BadMagicError is returned when a datagram does not start with the
// protocol magic constant.
type BadMagicError struct {
	Got uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic: got 0x%08X, want 0x%08X", e.Got, Magic)
}

// UnknownTypeError is returned when the telegram type code after the
// header is not a known variant. The raw code is kept for diagnostics.
type UnknownTypeError struct {
	Code   uint32
	Offset int
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown telegram type %d at offset %d", e.Code, e.Offset)
}

// TruncatedBufferError is returned when a read needs more bytes than
// remain in the buffer.
type TruncatedBufferError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedBufferError) Error() string {
	return fmt.Sprintf("truncated buffer at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// InvalidLengthError is returned when a string length prefix declares
// more bytes than remain in the buffer.
type InvalidLengthError struct {
	Offset    int
	Length    int32
	Remaining int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid string length %d at offset %d: only %d bytes remain", e.Length, e.Offset, e.Remaining)
}
