// Package wire implements the UDP telegram protocol spoken by WSJT-X and
// its companion programs: a fixed magic/schema/id header followed by one
// of a closed set of typed payloads, all big-endian with length-prefixed
// UTF-8 strings. Fields added in later schema versions trail the payload
// and decode as absent when the datagram predates them.
package wire

import "fmt"

const (
	// Magic is the 32-bit constant every telegram starts with.
	Magic uint32 = 0xADBCCBDA

	// SchemaVersion is the schema number used for telegrams this
	// server originates.
	SchemaVersion uint32 = 3
)

// Type is the telegram variant code that follows the header.
type Type uint32

const (
	TypeHeartbeat Type = iota
	TypeStatus
	TypeDecode
	TypeClear
	TypeReply
	TypeQSOLogged
	TypeClose
	TypeReplay
	TypeHaltTx
	TypeFreeText
	TypeWSPRDecode
	TypeLocation
	TypeLoggedADIF
	TypeHighlightCallsign
	TypeSwitchConfiguration
	TypeConfigure

	typeCount
)

var typeNames = [typeCount]string{
	"Heartbeat", "Status", "Decode", "Clear", "Reply", "QSOLogged",
	"Close", "Replay", "HaltTx", "FreeText", "WSPRDecode", "Location",
	"LoggedADIF", "HighlightCallsign", "SwitchConfiguration", "Configure",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Header carries the fields shared by every telegram: the sender's
// advertised schema version and its instance identifier.
type Header struct {
	SchemaVersion uint32
	ID            QString
}

// Hdr exposes the embedded header through the Telegram interface.
func (h *Header) Hdr() *Header {
	return h
}

// NewHeader returns a header for a telegram this server originates.
func NewHeader(id string) Header {
	return Header{SchemaVersion: SchemaVersion, ID: String(id)}
}

// Telegram is one protocol message. A value is constructed by Decode
// from a single datagram, consumed by one dispatch cycle and discarded.
type Telegram interface {
	TelegramType() Type
	Hdr() *Header

	readPayload(b *Buffer) error
	writePayload(b *Buffer)
}

// Decode parses one datagram into its telegram variant. Failures are
// typed: BadMagicError for a foreign datagram, UnknownTypeError for an
// unrecognized variant code, TruncatedBufferError / InvalidLengthError
// for malformed payloads. A telegram is never partially constructed; on
// error the returned Telegram is nil.
func Decode(data []byte) (Telegram, error) {
	b := NewReader(data)

	magic, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &BadMagicError{Got: magic}
	}

	var hdr Header
	if hdr.SchemaVersion, err = b.ReadU32(); err != nil {
		return nil, err
	}
	if hdr.ID, err = b.ReadString(); err != nil {
		return nil, err
	}

	typeOffset := b.Offset()
	code, err := b.ReadU32()
	if err != nil {
		return nil, err
	}

	tel := newTelegram(Type(code))
	if tel == nil {
		return nil, &UnknownTypeError{Code: code, Offset: typeOffset}
	}
	*tel.Hdr() = hdr
	if err := tel.readPayload(b); err != nil {
		return nil, err
	}
	return tel, nil
}

// Encode serializes a telegram. It is a pure function of the telegram's
// field values and header: equal telegrams yield identical bytes.
func Encode(t Telegram) []byte {
	b := NewWriter()
	b.WriteU32(Magic)
	b.WriteU32(t.Hdr().SchemaVersion)
	b.WriteString(t.Hdr().ID)
	b.WriteU32(uint32(t.TelegramType()))
	t.writePayload(b)
	return b.Bytes()
}

func newTelegram(t Type) Telegram {
	switch t {
	case TypeHeartbeat:
		return &Heartbeat{}
	case TypeStatus:
		return &Status{}
	case TypeDecode:
		return &DecodeMsg{}
	case TypeClear:
		return &Clear{}
	case TypeReply:
		return &Reply{}
	case TypeQSOLogged:
		return &QSOLogged{}
	case TypeClose:
		return &Close{}
	case TypeReplay:
		return &Replay{}
	case TypeHaltTx:
		return &HaltTx{}
	case TypeFreeText:
		return &FreeText{}
	case TypeWSPRDecode:
		return &WSPRDecode{}
	case TypeLocation:
		return &Location{}
	case TypeLoggedADIF:
		return &LoggedADIF{}
	case TypeHighlightCallsign:
		return &HighlightCallsign{}
	case TypeSwitchConfiguration:
		return &SwitchConfiguration{}
	case TypeConfigure:
		return &Configure{}
	default:
		return nil
	}
}

// Optional tail-field readers. Companion programs running older schema
// versions simply stop writing fields; a clean end of buffer therefore
// decodes as "not present". A field that begins but does not fit is
// still a truncation error.

func (b *Buffer) optBool() (*bool, error) {
	if b.Exhausted() {
		return nil, nil
	}
	v, err := b.ReadBool()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (b *Buffer) optU8() (*uint8, error) {
	if b.Exhausted() {
		return nil, nil
	}
	v, err := b.ReadU8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (b *Buffer) optU32() (*uint32, error) {
	if b.Exhausted() {
		return nil, nil
	}
	v, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (b *Buffer) optString() (*QString, error) {
	if b.Exhausted() {
		return nil, nil
	}
	v, err := b.ReadString()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
