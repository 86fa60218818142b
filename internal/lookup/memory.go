package lookup

import (
	"strings"
	"sync"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/cty"
)

// MemoryLookup holds worked-before counters built from the parsed log
// file. Entities missing from a record are resolved through the CTY
// prefix database at ingest time, mirroring how unknown-DXCC records
// are graded by call prefix.
type MemoryLookup struct {
	mu   sync.RWMutex
	cty  *cty.Database
	call map[string]int  // call|band|mode
	mode map[string]int  // call|mode, any band
	ent  map[string]int  // entity|band|mode
	entM map[string]int  // entity|mode, any band
	conf map[string]bool // call|mode
}

// NewMemoryLookup builds the counters from the given records. ctyDB
// may be nil; entity grading then relies on the records' own DXCC
// fields alone.
func NewMemoryLookup(records []adif.Record, ctyDB *cty.Database) *MemoryLookup {
	m := &MemoryLookup{
		cty:  ctyDB,
		call: make(map[string]int),
		mode: make(map[string]int),
		ent:  make(map[string]int),
		entM: make(map[string]int),
		conf: make(map[string]bool),
	}
	for _, rec := range records {
		m.add(rec)
	}
	return m
}

// Lookup implements ContactLookup. It never fails; the memory backend
// has no I/O.
func (m *MemoryLookup) Lookup(callsign, band, mode string) (Result, error) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	band = adif.NormalizeBand(band)
	mode = adif.NormalizeMode(mode)

	m.mu.RLock()
	defer m.mu.RUnlock()

	return Result{
		Worked:        m.call[key3(callsign, band, mode)] > 0,
		WorkedAnyBand: m.mode[key2(callsign, mode)] > 0,
		Confirmed:     m.conf[key2(callsign, mode)],
		DXCCEntity:    m.entity(adif.Record{Call: callsign}),
	}, nil
}

// EntityCount implements ContactLookup.
func (m *MemoryLookup) EntityCount(entity, band, mode string) (int64, int64, error) {
	if entity == "" {
		return 0, 0, nil
	}
	band = adif.NormalizeBand(band)
	mode = adif.NormalizeMode(mode)

	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(m.ent[key3(entity, band, mode)]), int64(m.entM[key2(entity, mode)]), nil
}

// AddRecord implements ContactLookup, folding a freshly logged
// contact into the counters.
func (m *MemoryLookup) AddRecord(rec adif.Record) error {
	m.add(rec)
	return nil
}

// Size returns the number of distinct call/band/mode combinations.
func (m *MemoryLookup) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.call)
}

func (m *MemoryLookup) add(rec adif.Record) {
	if !rec.Usable() {
		return
	}
	call := strings.ToUpper(strings.TrimSpace(rec.Call))
	band := adif.NormalizeBand(rec.Band)
	mode := adif.NormalizeMode(rec.EffectiveMode())

	m.mu.Lock()
	defer m.mu.Unlock()

	m.call[key3(call, band, mode)]++
	m.mode[key2(call, mode)]++
	if rec.Confirmed {
		m.conf[key2(call, mode)] = true
	}
	if entity := m.entity(rec); entity != "" {
		m.ent[key3(entity, band, mode)]++
		m.entM[key2(entity, mode)]++
	}
}

// entity resolves the DXCC code for a record, preferring the logged
// field over the prefix database.
func (m *MemoryLookup) entity(rec adif.Record) string {
	if rec.DXCC != "" {
		return rec.DXCC
	}
	return m.cty.EntityCode(rec.Call)
}

func key3(a, b, c string) string {
	return a + "|" + b + "|" + c
}

func key2(a, b string) string {
	return a + "|" + b
}
