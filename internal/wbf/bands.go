package wbf

// BandInfo describes an amateur radio band by name and frequency
// range in Hz.
type BandInfo struct {
	Name string // canonical band name (e.g., "20m", "70cm")
	Min  uint64 // minimum frequency in Hz
	Max  uint64 // maximum frequency in Hz
}

var bandTable = []BandInfo{
	{Name: "2200m", Min: 135_700, Max: 137_800},
	{Name: "630m", Min: 472_000, Max: 479_000},
	{Name: "160m", Min: 1_800_000, Max: 2_000_000},
	{Name: "80m", Min: 3_500_000, Max: 4_000_000},
	{Name: "60m", Min: 5_330_000, Max: 5_405_000},
	{Name: "40m", Min: 7_000_000, Max: 7_300_000},
	{Name: "30m", Min: 10_100_000, Max: 10_150_000},
	{Name: "20m", Min: 14_000_000, Max: 14_350_000},
	{Name: "17m", Min: 18_068_000, Max: 18_168_000},
	{Name: "15m", Min: 21_000_000, Max: 21_450_000},
	{Name: "12m", Min: 24_890_000, Max: 24_990_000},
	{Name: "10m", Min: 28_000_000, Max: 29_700_000},
	{Name: "6m", Min: 50_000_000, Max: 54_000_000},
	{Name: "2m", Min: 144_000_000, Max: 148_000_000},
	{Name: "1.25m", Min: 222_000_000, Max: 225_000_000},
	{Name: "70cm", Min: 420_000_000, Max: 450_000_000},
	{Name: "33cm", Min: 902_000_000, Max: 928_000_000},
	{Name: "23cm", Min: 1_240_000_000, Max: 1_300_000_000},
	{Name: "13cm", Min: 2_300_000_000, Max: 2_310_000_000},
}

// BandFor returns the canonical band name for a dial frequency, or ""
// when the frequency falls outside every amateur allocation.
func BandFor(dialHz uint64) string {
	for _, b := range bandTable {
		if dialHz >= b.Min && dialHz <= b.Max {
			return b.Name
		}
	}
	return ""
}

// SupportedBandNames returns the canonical names of all tracked bands.
func SupportedBandNames() []string {
	names := make([]string, len(bandTable))
	for i, entry := range bandTable {
		names[i] = entry.Name
	}
	return names
}
