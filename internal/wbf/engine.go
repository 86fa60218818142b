// Package wbf grades decoded callsigns against the contact log and
// produces the highlight telegrams that color new calls and new DXCC
// entities in the decode window.
package wbf

import (
	"log"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/lookup"
	"github.com/dl2gw/wsjtx-wbf/internal/wire"
)

// Grade is the worked-before classification of one decoded callsign.
type Grade int

const (
	GradeWorked      Grade = iota // call already in the log for band+mode
	GradeNewDXCC                  // entity never worked on this mode
	GradeNewDXCCBand              // entity worked, but not on this band
	GradeNewCall                  // entity worked on band, call is new
	GradeNewCallBand              // call worked on another band only
	GradeHighlight                // configured always-highlight entity
)

var gradeNames = map[Grade]string{
	GradeWorked:      "worked before",
	GradeNewDXCC:     "new DXCC",
	GradeNewDXCCBand: "new DXCC on band",
	GradeNewCall:     "new call",
	GradeNewCallBand: "new call on band",
	GradeHighlight:   "highlight",
}

func (g Grade) String() string {
	if s, ok := gradeNames[g]; ok {
		return s
	}
	return "unknown"
}

// gradeColors maps each highlight-worthy grade to its foreground and
// background. GradeWorked has no entry; worked calls stay uncolored.
var gradeColors = map[Grade][2]wire.QColor{
	GradeNewDXCC:     {wire.ColorBlack, wire.ColorPink},
	GradeNewDXCCBand: {wire.ColorBlack, wire.ColorPink1},
	GradeNewCall:     {wire.ColorBlack, wire.ColorCyan},
	GradeNewCallBand: {wire.ColorBlack, wire.ColorCyan1},
	GradeHighlight:   {wire.ColorBlack, wire.ColorOrange},
}

// Engine evaluates decodes against a contact lookup. It is stateless
// across calls; de-duplication and per-sender context both live in the
// dispatcher.
type Engine struct {
	lookup lookup.ContactLookup

	// highlightEntities marks DXCC entities to color even when only a
	// new call remains. The value is a contact-count threshold after
	// which highlighting stops; zero means always.
	highlightEntities map[string]int64

	id  string // header id for emitted telegrams
	log *log.Logger
}

// NewEngine creates an engine emitting telegrams under the given
// instance id. highlightEntities may be nil.
func NewEngine(id string, cl lookup.ContactLookup, highlightEntities map[string]int64, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		lookup:            cl,
		highlightEntities: highlightEntities,
		id:                id,
		log:               logger,
	}
}

// Evaluate grades the callsign in a decode and returns the highlight
// telegram to send, or nil when nothing should be colored: no status
// context yet, no recognizable callsign, or the call is already
// worked. A lookup failure is returned as LookupUnavailableError and
// never guessed around.
func (e *Engine) Evaluate(dec *wire.DecodeMsg, status *wire.Status) (*wire.HighlightCallsign, error) {
	if status == nil {
		return nil, nil
	}
	band := BandFor(status.DialFrequencyHz)
	if band == "" {
		return nil, nil
	}
	call := ExtractCallsign(dec.Message.S())
	if call == "" {
		if dec.Message.S() != "" {
			e.log.Printf("no callsign in decode %q", dec.Message.S())
		}
		return nil, nil
	}
	return e.highlightFor(call, band, modeFor(status))
}

// EvaluateWSPR grades a WSPR spot. WSPR telegrams carry the callsign
// directly, and the transmit frequency instead of the dial.
func (e *Engine) EvaluateWSPR(dec *wire.WSPRDecode) (*wire.HighlightCallsign, error) {
	band := BandFor(dec.FrequencyHz)
	call := dec.Callsign.S()
	if band == "" || call == "" {
		return nil, nil
	}
	return e.highlightFor(call, band, "WSPR")
}

// modeFor derives the lookup mode from a status telegram. The submode
// names the actual protocol where one exists (WSJT-X reports FT4 as a
// submode of MFSK), so it wins over the base mode.
func modeFor(status *wire.Status) string {
	if status.SubMode != nil && status.SubMode.S() != "" {
		return adif.NormalizeMode(status.SubMode.S())
	}
	return adif.NormalizeMode(status.Mode.S())
}

func (e *Engine) highlightFor(call, band, mode string) (*wire.HighlightCallsign, error) {
	grade, err := e.Grade(call, band, mode)
	if err != nil {
		return nil, err
	}
	colors, ok := gradeColors[grade]
	if !ok {
		return nil, nil
	}
	return &wire.HighlightCallsign{
		Header:            wire.NewHeader(e.id),
		Callsign:          wire.String(call),
		Background:        colors[1],
		Foreground:        colors[0],
		HighlightLastOnly: true,
	}, nil
}

// Grade classifies a callsign for the given band and mode. Prior
// contacts only count when both band and mode agree; the entity
// checks relax to any band on the same mode.
func (e *Engine) Grade(call, band, mode string) (Grade, error) {
	res, err := e.lookup.Lookup(call, band, mode)
	if err != nil {
		return GradeWorked, err
	}
	if res.Worked {
		return GradeWorked, nil
	}
	if res.DXCCEntity == "" {
		// Unresolvable prefix: grade by the strongest claim we cannot
		// refute, as the log carries no entity evidence either way.
		return GradeNewDXCC, nil
	}

	onBand, anyBand, err := e.lookup.EntityCount(res.DXCCEntity, band, mode)
	if err != nil {
		return GradeWorked, err
	}
	if onBand > 0 {
		if threshold, ok := e.highlightEntities[res.DXCCEntity]; ok {
			if threshold == 0 || onBand < threshold {
				return GradeHighlight, nil
			}
		}
		if res.WorkedAnyBand {
			return GradeNewCallBand, nil
		}
		return GradeNewCall, nil
	}
	if anyBand > 0 {
		return GradeNewDXCCBand, nil
	}
	return GradeNewDXCC, nil
}

// Decolor builds the telegram that removes a previously issued
// highlight: invalid colors clear the entry.
func (e *Engine) Decolor(call string) *wire.HighlightCallsign {
	return &wire.HighlightCallsign{
		Header:            wire.NewHeader(e.id),
		Callsign:          wire.String(call),
		Background:        wire.ColorInvalid,
		Foreground:        wire.ColorInvalid,
		HighlightLastOnly: true,
	}
}
