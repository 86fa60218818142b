package wire

import "fmt"

// QString is a length-prefixed UTF-8 wire string. The protocol
// distinguishes a null string (length prefix -1) from an empty one
// (length prefix 0), so the distinction is kept above the buffer layer.
type QString struct {
	Value string
	Null  bool
}

// String returns a QString holding s.
func String(s string) QString {
	return QString{Value: s}
}

// NullString returns the null QString.
func NullString() QString {
	return QString{Null: true}
}

// S returns the string value, or "" for the null string.
func (s QString) S() string {
	if s.Null {
		return ""
	}
	return s.Value
}

func (s QString) String() string {
	if s.Null {
		return "<null>"
	}
	return s.Value
}

// QColor is the RGB color wire form used by HighlightCallsign telegrams:
// a spec byte followed by alpha, red, green and blue as 16-bit channels
// and a 16-bit pad.
type QColor struct {
	Spec  uint8
	Alpha uint16
	Red   uint16
	Green uint16
	Blue  uint16
}

const (
	colorSpecInvalid = 0
	colorSpecRGB     = 1
	colorMax         = 0xFFFF
)

// RGB returns a valid color with full alpha.
func RGB(r, g, b uint16) QColor {
	return QColor{Spec: colorSpecRGB, Alpha: colorMax, Red: r, Green: g, Blue: b}
}

// Named colors used by the highlight grades.
var (
	ColorInvalid = QColor{Spec: colorSpecInvalid}
	ColorBlack   = RGB(0, 0, 0)
	ColorWhite   = RGB(colorMax, colorMax, colorMax)
	ColorRed     = RGB(colorMax, 0, 0)
	ColorGreen   = RGB(0, colorMax, 0)
	ColorBlue    = RGB(0, 0, colorMax)
	ColorCyan    = RGB(0, colorMax, colorMax)
	ColorCyan1   = RGB(0x9999, colorMax, colorMax)
	ColorPink    = RGB(colorMax, 0, colorMax)
	ColorPink1   = RGB(colorMax, 0xAAAA, colorMax)
	ColorOrange  = RGB(colorMax, 0xA0A0, 0)
)

// Valid reports whether the color carries RGB data.
func (c QColor) Valid() bool {
	return c.Spec == colorSpecRGB
}

func (c QColor) String() string {
	if !c.Valid() {
		return "QColor(invalid)"
	}
	return fmt.Sprintf("QColor(a=%d r=%d g=%d b=%d)", c.Alpha, c.Red, c.Green, c.Blue)
}

func (b *Buffer) ReadColor() (QColor, error) {
	var c QColor
	var err error
	if c.Spec, err = b.ReadU8(); err != nil {
		return c, err
	}
	if c.Alpha, err = b.ReadU16(); err != nil {
		return c, err
	}
	if c.Red, err = b.ReadU16(); err != nil {
		return c, err
	}
	if c.Green, err = b.ReadU16(); err != nil {
		return c, err
	}
	if c.Blue, err = b.ReadU16(); err != nil {
		return c, err
	}
	// trailing pad word
	if _, err = b.ReadU16(); err != nil {
		return c, err
	}
	return c, nil
}

func (b *Buffer) WriteColor(c QColor) {
	b.WriteU8(c.Spec)
	b.WriteU16(c.Alpha)
	b.WriteU16(c.Red)
	b.WriteU16(c.Green)
	b.WriteU16(c.Blue)
	b.WriteU16(0)
}

// QDateTime is the date-time wire form: Julian day number, milliseconds
// since midnight and a timespec byte. An explicit UTC offset follows only
// when Timespec is 2.
type QDateTime struct {
	JulianDay int64
	Msecs     uint32
	Timespec  uint8
	Offset    *int32
}

const timespecOffsetFromUTC = 2

func (b *Buffer) ReadDateTime() (QDateTime, error) {
	var dt QDateTime
	var err error
	if dt.JulianDay, err = b.ReadI64(); err != nil {
		return dt, err
	}
	if dt.Msecs, err = b.ReadU32(); err != nil {
		return dt, err
	}
	if dt.Timespec, err = b.ReadU8(); err != nil {
		return dt, err
	}
	if dt.Timespec == timespecOffsetFromUTC {
		off, err := b.ReadI32()
		if err != nil {
			return dt, err
		}
		dt.Offset = &off
	}
	return dt, nil
}

func (b *Buffer) WriteDateTime(dt QDateTime) {
	b.WriteI64(dt.JulianDay)
	b.WriteU32(dt.Msecs)
	b.WriteU8(dt.Timespec)
	if dt.Timespec == timespecOffsetFromUTC && dt.Offset != nil {
		b.WriteI32(*dt.Offset)
	}
}

func (dt QDateTime) String() string {
	return fmt.Sprintf("QDateTime(day=%d msecs=%d spec=%d)", dt.JulianDay, dt.Msecs, dt.Timespec)
}
