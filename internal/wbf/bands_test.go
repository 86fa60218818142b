package wbf

import "testing"

func TestBandFor(t *testing.T) {
	tests := []struct {
		dialHz uint64
		want   string
	}{
		{7_074_000, "40m"},
		{14_074_000, "20m"},
		{14_000_000, "20m"}, // band edge
		{14_350_000, "20m"}, // band edge
		{18_100_000, "17m"},
		{144_174_000, "2m"},
		{432_174_000, "70cm"},
		{13_560_000, ""}, // between 20m and 17m
		{0, ""},
	}
	for _, tt := range tests {
		if got := BandFor(tt.dialHz); got != tt.want {
			t.Errorf("BandFor(%d) = %q, want %q", tt.dialHz, got, tt.want)
		}
	}
}

func TestSupportedBandNames(t *testing.T) {
	names := SupportedBandNames()
	if len(names) != len(bandTable) {
		t.Fatalf("got %d names, want %d", len(names), len(bandTable))
	}
	if names[0] != "2200m" || names[len(names)-1] != "13cm" {
		t.Errorf("unexpected band order: %v", names)
	}
}
