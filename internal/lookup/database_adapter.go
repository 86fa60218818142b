package lookup

import (
	"strings"
	"sync"
	"time"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/cty"
	"github.com/dl2gw/wsjtx-wbf/internal/database"
)

// DatabaseLookup answers worked-before queries from the QSO database.
// Results are cached briefly so a pileup decoding the same call every
// cycle does not hammer sqlite.
//
// Entity counts from the database are restricted to confirmed
// contacts: an entity only stops being "new DXCC" once a QSL for it
// exists, whereas the in-memory log backend counts every contact.
type DatabaseLookup struct {
	repo *database.QSORepository
	cty  *cty.Database

	mu        sync.Mutex
	cache     map[string]Result
	cacheSize int
	expiry    time.Duration
	lastClear time.Time
}

// DatabaseLookupConfig holds cache tuning for the adapter.
type DatabaseLookupConfig struct {
	CacheSize int           // maximum cached lookups (default 1000)
	Expiry    time.Duration // cache lifetime (default 5 minutes)
}

// NewDatabaseLookup creates an adapter with default cache settings.
func NewDatabaseLookup(repo *database.QSORepository, ctyDB *cty.Database) *DatabaseLookup {
	return NewDatabaseLookupWithConfig(repo, ctyDB, DatabaseLookupConfig{
		CacheSize: 1000,
		Expiry:    5 * time.Minute,
	})
}

// NewDatabaseLookupWithConfig creates an adapter with explicit cache
// settings.
func NewDatabaseLookupWithConfig(repo *database.QSORepository, ctyDB *cty.Database, cfg DatabaseLookupConfig) *DatabaseLookup {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 5 * time.Minute
	}
	return &DatabaseLookup{
		repo:      repo,
		cty:       ctyDB,
		cache:     make(map[string]Result),
		cacheSize: cfg.CacheSize,
		expiry:    cfg.Expiry,
		lastClear: time.Now(),
	}
}

// Start validates the database connection.
func (d *DatabaseLookup) Start() error {
	if err := d.repo.HealthCheck(); err != nil {
		return &LookupUnavailableError{Backend: "database", Err: err}
	}
	return nil
}

// Lookup implements ContactLookup.
func (d *DatabaseLookup) Lookup(callsign, band, mode string) (Result, error) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	band = adif.NormalizeBand(band)
	mode = adif.NormalizeMode(mode)

	key := key3(callsign, band, mode)
	if res, ok := d.cacheGet(key); ok {
		return res, nil
	}

	onBand, err := d.repo.CountCall(callsign, band, mode)
	if err != nil {
		return Result{}, &LookupUnavailableError{Backend: "database", Err: err}
	}
	anyBand, err := d.repo.CountCall(callsign, "", mode)
	if err != nil {
		return Result{}, &LookupUnavailableError{Backend: "database", Err: err}
	}

	res := Result{
		Worked:        onBand > 0,
		WorkedAnyBand: anyBand > 0,
		DXCCEntity:    d.cty.EntityCode(callsign),
	}
	d.cacheStore(key, res)
	return res, nil
}

// EntityCount implements ContactLookup. Only confirmed contacts
// count.
func (d *DatabaseLookup) EntityCount(entity, band, mode string) (int64, int64, error) {
	if entity == "" {
		return 0, 0, nil
	}
	band = adif.NormalizeBand(band)
	mode = adif.NormalizeMode(mode)

	onBand, err := d.repo.CountEntity(entity, band, mode, true)
	if err != nil {
		return 0, 0, &LookupUnavailableError{Backend: "database", Err: err}
	}
	anyBand, err := d.repo.CountEntity(entity, "", mode, true)
	if err != nil {
		return 0, 0, &LookupUnavailableError{Backend: "database", Err: err}
	}
	return onBand, anyBand, nil
}

// AddRecord implements ContactLookup, inserting the contact and
// dropping any stale cached result for it.
func (d *DatabaseLookup) AddRecord(rec adif.Record) error {
	qso := database.QSOFromRecord(rec)
	if err := d.repo.Insert(&qso); err != nil {
		return &LookupUnavailableError{Backend: "database", Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := strings.ToUpper(strings.TrimSpace(rec.Call)) + "|"
	for key := range d.cache {
		if strings.HasPrefix(key, prefix) {
			delete(d.cache, key)
		}
	}
	return nil
}

func (d *DatabaseLookup) cacheGet(key string) (Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearExpired()
	res, ok := d.cache[key]
	return res, ok
}

func (d *DatabaseLookup) cacheStore(key string, res Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearExpired()
	if len(d.cache) >= d.cacheSize {
		// Whole-cache flush keeps eviction trivial; correctness only
		// depends on the expiry bound.
		d.cache = make(map[string]Result)
	}
	d.cache[key] = res
}

func (d *DatabaseLookup) clearExpired() {
	if time.Since(d.lastClear) > d.expiry {
		d.cache = make(map[string]Result)
		d.lastClear = time.Now()
	}
}
