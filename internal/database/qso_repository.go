package database

import (
	"fmt"

	"gorm.io/gorm"
)

// QSORepository provides the query shapes the worked-before lookup
// needs: callsign and entity counts scoped by band and mode.
type QSORepository struct {
	db *gorm.DB
}

// NewQSORepository creates a new repository instance
func NewQSORepository(db *gorm.DB) *QSORepository {
	return &QSORepository{db: db}
}

// CountCall returns how often a callsign was worked on the given band
// and mode. An empty band or mode widens the scope to any value.
func (r *QSORepository) CountCall(callsign, band, mode string) (int64, error) {
	q := r.db.Model(&QSO{}).Where("callsign = ?", callsign)
	if band != "" {
		q = q.Where("band = ?", band)
	}
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// CountEntity returns how often a DXCC entity was worked on the given
// band and mode. confirmedOnly restricts to QSL-confirmed contacts.
func (r *QSORepository) CountEntity(entity, band, mode string, confirmedOnly bool) (int64, error) {
	if entity == "" {
		return 0, nil
	}
	q := r.db.Model(&QSO{}).Where("dxcc = ?", entity)
	if band != "" {
		q = q.Where("band = ?", band)
	}
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	if confirmedOnly {
		q = q.Where("confirmed = ?", true)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// Insert stores a single contact
func (r *QSORepository) Insert(qso *QSO) error {
	if qso == nil {
		return fmt.Errorf("qso cannot be nil")
	}
	qso.Sanitize()
	if !qso.IsValid() {
		return fmt.Errorf("qso is not valid: callsign=%q band=%q", qso.Callsign, qso.Band)
	}
	return r.db.Create(qso).Error
}

// InsertBatch stores multiple contacts in transactions, used for the
// initial log-file import. Invalid records are skipped, not an error.
func (r *QSORepository) InsertBatch(qsos []QSO) (int, error) {
	if len(qsos) == 0 {
		return 0, nil
	}

	const batchSize = 1000
	inserted := 0

	for i := 0; i < len(qsos); i += batchSize {
		end := i + batchSize
		if end > len(qsos) {
			end = len(qsos)
		}

		valid := make([]QSO, 0, end-i)
		for _, qso := range qsos[i:end] {
			qso.Sanitize()
			if qso.IsValid() {
				valid = append(valid, qso)
			}
		}
		if len(valid) == 0 {
			continue
		}

		err := r.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&valid).Error
		})
		if err != nil {
			return inserted, fmt.Errorf("batch insert failed at index %d: %w", i, err)
		}
		inserted += len(valid)
	}

	return inserted, nil
}

// Count returns the total number of logged contacts
func (r *QSORepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&QSO{}).Count(&count).Error
	return count, err
}

// DeleteAll removes all contacts, used before a full re-import
func (r *QSORepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&QSO{}).Error
}

// HealthCheck verifies the repository is working correctly
func (r *QSORepository) HealthCheck() error {
	var count int64
	return r.db.Model(&QSO{}).Count(&count).Error
}
