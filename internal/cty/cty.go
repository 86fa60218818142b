// Package cty loads the CTY prefix database (plist form) and resolves
// callsigns to DXCC entities by longest-prefix match. The worked-before
// engine uses the entity code to grade decodes as new-DXCC.
package cty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"howett.net/plist"
)

// Entity is the metadata stored per CTY entry.
type Entity struct {
	Country       string `plist:"Country"`
	Prefix        string `plist:"Prefix"`
	ADIF          int    `plist:"ADIF"`
	Continent     string `plist:"Continent"`
	ExactCallsign bool   `plist:"ExactCallsign"`
}

// Code returns the ADIF entity code in the zero-padded three-digit
// form the log records use.
func (e Entity) Code() string {
	return fmt.Sprintf("%03d", e.ADIF)
}

// Database maps uppercase prefixes and exact callsigns to entities.
// A nil Database is valid and never matches.
type Database struct {
	entries map[string]Entity
}

// Load reads a cty.plist file.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cty database: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader decodes CTY data from a seekable reader.
func LoadReader(r io.ReadSeeker) (*Database, error) {
	var raw map[string]Entity
	if err := plist.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode cty plist: %w", err)
	}
	entries := make(map[string]Entity, len(raw))
	for k, v := range raw {
		entries[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &Database{entries: entries}, nil
}

// Size returns the number of loaded entries.
func (db *Database) Size() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// portableSuffixes are stripped before prefix matching. The station's
// entity is determined by the base call, not the operating suffix.
var portableSuffixes = []string{"/QRP", "/MM", "/AM", "/P", "/M"}

func normalize(call string) string {
	call = strings.ToUpper(strings.TrimSpace(call))
	for _, suf := range portableSuffixes {
		if strings.HasSuffix(call, suf) {
			return strings.TrimSuffix(call, suf)
		}
	}
	return call
}

// Lookup resolves a callsign to its DXCC entity. An exact-call entry
// wins over any prefix; otherwise the longest matching prefix is used.
// Entries flagged ExactCallsign only match the whole call.
func (db *Database) Lookup(call string) (Entity, bool) {
	if db == nil || len(db.entries) == 0 {
		return Entity{}, false
	}
	call = normalize(call)
	if call == "" {
		return Entity{}, false
	}

	if e, ok := db.entries[call]; ok {
		return e, true
	}
	for n := len(call) - 1; n > 0; n-- {
		e, ok := db.entries[call[:n]]
		if ok && !e.ExactCallsign {
			return e, true
		}
	}
	return Entity{}, false
}

// EntityCode is the Lookup variant the contact lookup consumes: the
// three-digit code or "" when the call cannot be resolved.
func (db *Database) EntityCode(call string) string {
	e, ok := db.Lookup(call)
	if !ok {
		return ""
	}
	return e.Code()
}
