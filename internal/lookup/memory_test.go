package lookup

import (
	"errors"
	"testing"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
)

func testRecords() []adif.Record {
	return []adif.Record{
		{Call: "K1ABC", Band: "20m", Mode: "FT8", DXCC: "291"},
		{Call: "K1ABC", Band: "40m", Mode: "FT8", DXCC: "291"},
		{Call: "OE3RSU", Band: "40m", Mode: "FT8", DXCC: "206", Confirmed: true},
		{Call: "OE3RSU", Band: "40m", Mode: "JT65", DXCC: "206"},
		{Call: "NOBAND", Mode: "FT8"}, // unusable, skipped
	}
}

func TestMemoryLookup(t *testing.T) {
	m := NewMemoryLookup(testRecords(), nil)

	if m.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", m.Size())
	}

	tests := []struct {
		name             string
		call, band, mode string
		worked, anyBand  bool
	}{
		{"worked on band", "K1ABC", "20m", "FT8", true, true},
		{"case insensitive", "k1abc", "20M", "ft8", true, true},
		{"other band same mode", "K1ABC", "10m", "FT8", false, true},
		{"other mode", "K1ABC", "20m", "JT65", false, false},
		{"never worked", "ZZ9ZZZ", "20m", "FT8", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Lookup(tt.call, tt.band, tt.mode)
			if err != nil {
				t.Fatalf("Lookup() error: %v", err)
			}
			if res.Worked != tt.worked || res.WorkedAnyBand != tt.anyBand {
				t.Errorf("Lookup(%s,%s,%s) = %+v, want worked=%v anyBand=%v",
					tt.call, tt.band, tt.mode, res, tt.worked, tt.anyBand)
			}
		})
	}
}

func TestMemoryLookup_EntityCount(t *testing.T) {
	m := NewMemoryLookup(testRecords(), nil)

	onBand, anyBand, err := m.EntityCount("291", "20m", "FT8")
	if err != nil {
		t.Fatalf("EntityCount() error: %v", err)
	}
	if onBand != 1 || anyBand != 2 {
		t.Errorf("entity 291 FT8 = %d on band, %d any band; want 1, 2", onBand, anyBand)
	}

	onBand, anyBand, err = m.EntityCount("206", "20m", "FT8")
	if err != nil {
		t.Fatalf("EntityCount() error: %v", err)
	}
	if onBand != 0 || anyBand != 1 {
		t.Errorf("entity 206 20m FT8 = %d, %d; want 0, 1", onBand, anyBand)
	}

	if onBand, anyBand, _ := m.EntityCount("", "20m", "FT8"); onBand != 0 || anyBand != 0 {
		t.Errorf("empty entity = %d, %d; want 0, 0", onBand, anyBand)
	}
}

func TestMemoryLookup_Confirmed(t *testing.T) {
	m := NewMemoryLookup(testRecords(), nil)

	res, _ := m.Lookup("OE3RSU", "40m", "FT8")
	if !res.Confirmed {
		t.Error("OE3RSU FT8 should be confirmed")
	}
	res, _ = m.Lookup("OE3RSU", "40m", "JT65")
	if res.Confirmed {
		t.Error("OE3RSU JT65 should not be confirmed")
	}
}

func TestMemoryLookup_AddRecord(t *testing.T) {
	m := NewMemoryLookup(nil, nil)

	res, _ := m.Lookup("D1XYZ", "17m", "FT4")
	if res.Worked {
		t.Fatal("fresh lookup reports worked")
	}

	if err := m.AddRecord(adif.Record{Call: "D1XYZ", Band: "17m", Mode: "FT4", DXCC: "230"}); err != nil {
		t.Fatalf("AddRecord() error: %v", err)
	}

	res, _ = m.Lookup("D1XYZ", "17m", "FT4")
	if !res.Worked {
		t.Fatal("logged contact not visible to lookup")
	}
	if onBand, _, _ := m.EntityCount("230", "17m", "FT4"); onBand != 1 {
		t.Errorf("entity count after AddRecord = %d, want 1", onBand)
	}
}

func TestLookupUnavailableError(t *testing.T) {
	inner := errors.New("disk gone")
	err := error(&LookupUnavailableError{Backend: "database", Err: inner})

	var lue *LookupUnavailableError
	if !errors.As(err, &lue) {
		t.Fatal("errors.As failed")
	}
	if !errors.Is(err, inner) {
		t.Fatal("errors.Is failed to unwrap")
	}
}
