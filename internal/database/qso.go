package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
)

// QSO is one logged contact. Band and mode are stored normalized so
// the worked-before queries can compare them directly against the
// current radio context.
type QSO struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Callsign  string    `gorm:"index:idx_call_band_mode;size:20;not null" json:"callsign"`
	Band      string    `gorm:"index:idx_call_band_mode;index:idx_entity_band,priority:2;size:10" json:"band"`
	Mode      string    `gorm:"index:idx_call_band_mode;size:16" json:"mode"`
	Submode   string    `gorm:"size:16" json:"submode"`
	Grid      string    `gorm:"size:8" json:"grid"`
	DXCC      string    `gorm:"index:idx_entity_band,priority:1;size:3" json:"dxcc"`
	Confirmed bool      `json:"confirmed"`
	WorkedAt  time.Time `json:"worked_at"`
}

// TableName specifies the table name for GORM
func (QSO) TableName() string {
	return "qsos"
}

// IsValid checks if the record has the fields the lookup keys on
func (q QSO) IsValid() bool {
	return q.Callsign != "" && q.Band != ""
}

// Sanitize normalizes the key fields
func (q *QSO) Sanitize() {
	q.Callsign = strings.ToUpper(strings.TrimSpace(q.Callsign))
	q.Band = adif.NormalizeBand(q.Band)
	q.Mode = adif.NormalizeMode(q.Mode)
	q.Submode = adif.NormalizeMode(q.Submode)
	q.Grid = strings.TrimSpace(q.Grid)
	q.DXCC = strings.TrimSpace(q.DXCC)
}

// String returns a formatted string representation
func (q QSO) String() string {
	result := fmt.Sprintf("%s %s/%s", q.Callsign, q.Band, q.Mode)
	if q.DXCC != "" {
		result += fmt.Sprintf(" dxcc=%s", q.DXCC)
	}
	if q.Confirmed {
		result += " (confirmed)"
	}
	return result
}

// QSOFromRecord converts a parsed log record. The worked-at time is
// taken from the record's QSO date when present.
func QSOFromRecord(rec adif.Record) QSO {
	workedAt := time.Now().UTC()
	if t, err := time.Parse("20060102", rec.QSODate); err == nil {
		workedAt = t
	}
	return QSO{
		Callsign:  rec.Call,
		Band:      rec.Band,
		Mode:      rec.EffectiveMode(),
		Submode:   rec.Submode,
		Grid:      rec.Grid,
		DXCC:      rec.DXCC,
		Confirmed: rec.Confirmed,
		WorkedAt:  workedAt,
	}
}
