package adif

import (
	"strings"
	"testing"
)

const sampleLog = `WSJT-X ADIF Export<eoh>
<call:5>K1ABC <gridsquare:4>FN42 <mode:3>FT8 <band:3>20m <qso_date:8>20260101 <time_on:6>120000 <rst_sent:3>-10 <rst_rcvd:3>-05 <freq:9>14.074000 <eor>
<call:6>OE3RSU <gridsquare:6>JN88dg <mode:3>FT8 <band:3>40m <dxcc:3>206 <lotw_qsl_rcvd:1>Y <eor>
<call:5>RK3LG <mode:4>JT65 <band:3>40M <country:15>European Russia <eor>
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Parse() returned %d records, want 3", len(records))
	}

	r := records[0]
	if r.Call != "K1ABC" || r.Band != "20m" || r.Mode != "FT8" || r.Grid != "FN42" {
		t.Errorf("record 0 = %+v", r)
	}
	if r.Confirmed {
		t.Errorf("record 0 confirmed without QSL field")
	}

	r = records[1]
	if r.DXCC != "206" {
		t.Errorf("dxcc = %q, want 206", r.DXCC)
	}
	if !r.Confirmed {
		t.Errorf("record 1 not confirmed despite lotw_qsl_rcvd=Y")
	}

	r = records[2]
	if r.Band != "40m" {
		t.Errorf("band = %q, want 40m (case normalized)", r.Band)
	}
	if r.Mode != "JT65" {
		t.Errorf("mode = %q, want JT65", r.Mode)
	}
	if r.Country != "European Russia" {
		t.Errorf("country = %q", r.Country)
	}
}

func TestParse_SingleTelegramRecord(t *testing.T) {
	// The form WSJT-X sends inside a LoggedADIF telegram: header plus
	// exactly one record.
	text := "ADIF Export<eoh>\n<call:5>D1XYZ<band:3>17m<mode:3>FT4<eor>"
	records, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Call != "D1XYZ" || records[0].Band != "17m" || records[0].Mode != "FT4" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestParse_MissingEOR(t *testing.T) {
	records, err := Parse(strings.NewReader("<eoh><call:5>K1ABC<band:3>20m"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(records) != 1 || records[0].Call != "K1ABC" {
		t.Fatalf("trailing record not kept: %+v", records)
	}
}

func TestParse_BadLength(t *testing.T) {
	if _, err := Parse(strings.NewReader("<eoh><call:xx>K1ABC<eor>")); err == nil {
		t.Fatal("Parse() accepted a non-numeric field length")
	}
	if _, err := Parse(strings.NewReader("<eoh><call:99>K1ABC<eor>")); err == nil {
		t.Fatal("Parse() accepted a length past end of input")
	}
}

func TestParse_Empty(t *testing.T) {
	records, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from empty input", len(records))
	}
}

func TestUsable(t *testing.T) {
	if (Record{Call: "K1ABC"}).Usable() {
		t.Error("record without band reported usable")
	}
	if (Record{Band: "20m"}).Usable() {
		t.Error("record without call reported usable")
	}
	if !(Record{Call: "K1ABC", Band: "20m"}).Usable() {
		t.Error("complete record reported unusable")
	}
}

func TestNormalizeBand(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"40m", "40m"},
		{"40M", "40m"},
		{" 20m ", "20m"},
		{"40", "40m"},
		{"70cm", "70cm"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBand(tt.in); got != tt.want {
			t.Errorf("NormalizeBand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
