// Package adif parses the ADIF contact-log interchange format: an
// optional free-text header terminated by <eoh>, then records of
// <NAME:length[:type]>value fields terminated by <eor>. WSJT-X writes
// one such record per logged QSO, both to its log file and inside
// LoggedADIF telegrams.
package adif

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one logged contact. Only the fields the worked-before
// lookup cares about are kept; everything else is discarded while
// parsing.
type Record struct {
	Call      string
	Band      string // normalized lowercase, e.g. "40m"
	Mode      string // normalized uppercase, e.g. "FT8"
	Submode   string
	Grid      string
	DXCC      string // ADIF entity code as decimal text, "" if absent
	Country   string
	QSODate   string // YYYYMMDD
	Confirmed bool   // LOTW_QSL_RCVD or QSL_RCVD == Y
}

// EffectiveMode returns the protocol actually used on the air: the
// submode when one is logged (WSJT-X records FT4 as MODE=MFSK,
// SUBMODE=FT4), else the mode.
func (r Record) EffectiveMode() string {
	if r.Submode != "" {
		return r.Submode
	}
	return r.Mode
}

// Usable reports whether the record carries enough information for
// worked-before bookkeeping. Records without a call or band are
// skipped by importers.
func (r Record) Usable() bool {
	return r.Call != "" && r.Band != ""
}

// Parse reads ADIF text and returns the contained records. Unknown
// field names are ignored. A malformed field tag is an error; the
// format is machine-written and a broken tag means the rest of the
// stream cannot be trusted.
func Parse(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var records []Record
	var cur Record
	var seen bool

	for {
		name, value, err := nextField(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch name {
		case "eoh":
			// Header fields (adif_ver and friends) parsed so far
			// belong to no record.
			cur = Record{}
			seen = false
			continue
		case "eor":
			if seen {
				records = append(records, cur)
			}
			cur = Record{}
			seen = false
			continue
		}

		seen = true
		switch name {
		case "call":
			cur.Call = strings.ToUpper(strings.TrimSpace(value))
		case "band":
			cur.Band = NormalizeBand(value)
		case "mode":
			cur.Mode = NormalizeMode(value)
		case "submode":
			cur.Submode = NormalizeMode(value)
		case "gridsquare":
			cur.Grid = strings.TrimSpace(value)
		case "dxcc":
			cur.DXCC = normalizeDXCC(value)
		case "country", "country_intl":
			if cur.Country == "" {
				cur.Country = strings.TrimSpace(value)
			}
		case "qso_date":
			cur.QSODate = strings.TrimSpace(value)
		case "lotw_qsl_rcvd", "qsl_rcvd":
			if strings.EqualFold(strings.TrimSpace(value), "Y") {
				cur.Confirmed = true
			}
		}
	}

	if seen {
		// Trailing record without <eor>; WSJT-X never writes this
		// but hand-edited logs do.
		records = append(records, cur)
	}
	return records, nil
}

// nextField scans to the next <...> tag and returns its name
// (lowercased) and value. <eoh> and <eor> return an empty value.
func nextField(br *bufio.Reader) (string, string, error) {
	// Skip to the opening bracket, discarding inter-field whitespace
	// and header prose.
	if _, err := br.ReadString('<'); err != nil {
		return "", "", err
	}
	tag, err := br.ReadString('>')
	if err != nil {
		if err == io.EOF {
			return "", "", fmt.Errorf("adif: unterminated tag at end of input")
		}
		return "", "", err
	}
	tag = tag[:len(tag)-1]

	parts := strings.SplitN(tag, ":", 3)
	name := strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) == 1 {
		// Bare tag: eoh / eor markers.
		return name, "", nil
	}

	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || length < 0 {
		return "", "", fmt.Errorf("adif: bad length in tag <%s>", tag)
	}
	value := make([]byte, length)
	if _, err := io.ReadFull(br, value); err != nil {
		return "", "", fmt.Errorf("adif: field %s declares %d bytes: %v", name, length, err)
	}
	return name, string(value), nil
}

// NormalizeBand returns the canonical lowercase band identifier, e.g.
// "40M" -> "40m". A bare number gets an "m" suffix.
func NormalizeBand(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return ""
	}
	if c := s[len(s)-1]; c >= '0' && c <= '9' {
		s += "m"
	}
	return s
}

// NormalizeMode uppercases a mode or submode name.
func NormalizeMode(mode string) string {
	return strings.ToUpper(strings.TrimSpace(mode))
}

// normalizeDXCC renders an entity code as zero-padded three-digit
// text, the form the CTY database uses as well.
func normalizeDXCC(value string) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return ""
	}
	return fmt.Sprintf("%03d", n)
}
