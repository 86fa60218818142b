// Package lookup answers the worked-before question: has this callsign
// or its DXCC entity been worked on the current band and mode before.
// Two backends implement the same interface, one built in memory from
// the parsed log file and one backed by the QSO database.
package lookup

import (
	"fmt"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
)

// Result describes the prior-contact state of one callsign.
type Result struct {
	Worked        bool   // worked on this band and mode
	WorkedAnyBand bool   // worked on this mode, any band
	Confirmed     bool   // at least one matching contact is QSL confirmed
	DXCCEntity    string // three-digit entity code, "" when unresolvable
}

// ContactLookup is the query interface the worked-before engine
// consumes. Implementations must be safe for concurrent readers.
//
// The band scope of Lookup is strict: a contact on another band never
// counts as Worked. Entity queries carry both scopes because the
// new-DXCC grading relaxes to any band when the current band has no
// contact with that entity.
type ContactLookup interface {
	// Lookup reports prior contacts with callsign on band/mode.
	Lookup(callsign, band, mode string) (Result, error)

	// EntityCount reports how often the DXCC entity was worked on
	// this band/mode and on this mode across all bands.
	EntityCount(entity, band, mode string) (onBand, anyBand int64, err error)

	// AddRecord folds one freshly logged contact into the state.
	AddRecord(rec adif.Record) error
}

// LookupUnavailableError reports a backend failure. The engine emits
// no highlight when the log cannot be consulted; it never guesses.
type LookupUnavailableError struct {
	Backend string
	Err     error
}

func (e *LookupUnavailableError) Error() string {
	return fmt.Sprintf("contact lookup unavailable (%s): %v", e.Backend, e.Err)
}

func (e *LookupUnavailableError) Unwrap() error {
	return e.Err
}
