// wsjtxwbf is a worked-before server for WSJT-X: it listens on the
// UDP port WSJT-X reports to, grades every decoded callsign against
// the station log and colors new calls and new DXCC entities in the
// decode window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/config"
	"github.com/dl2gw/wsjtx-wbf/internal/cty"
	"github.com/dl2gw/wsjtx-wbf/internal/database"
	"github.com/dl2gw/wsjtx-wbf/internal/lookup"
	"github.com/dl2gw/wsjtx-wbf/internal/network"
	"github.com/dl2gw/wsjtx-wbf/internal/wbf"
	"github.com/dl2gw/wsjtx-wbf/internal/wire"
)

const VERSION = "1.0.0-go"

func main() {
	configFile := flag.String("config", "wsjtxwbf.ini", "configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wsjtxwbf %s\n", VERSION)
		return
	}

	if err := run(*configFile); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configFile string) error {
	cfg := config.NewConfig(configFile)
	if err := cfg.Load(); err != nil {
		// Environment and built-in defaults cover a missing file.
		log.Printf("config: %v, continuing with defaults", err)
	}

	ctyDB := loadCTY(cfg)
	records := loadLog(cfg)
	contacts := buildLookup(cfg, records, ctyDB)

	engine := wbf.NewEngine(cfg.GetId(), contacts, cfg.GetHighlight(),
		log.New(os.Stdout, "[WBF] ", log.LstdFlags))

	sock := network.NewUDPSocket(cfg.GetAddress(), int(cfg.GetPort()))
	if err := sock.Open(); err != nil {
		return fmt.Errorf("open UDP socket: %w", err)
	}

	dispatcher := network.NewDispatcher(sock, engine, contacts,
		cfg.GetId(), VERSION, passThrough(cfg),
		log.New(os.Stdout, "[NET] ", log.LstdFlags))
	if cfg.GetSetLocatorMessage() {
		dispatcher.SetLocatorMessage(cfg.GetCallsign(), cfg.GetLocator())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("wsjtxwbf %s listening on %s:%d as %q", VERSION, cfg.GetAddress(), cfg.GetPort(), cfg.GetId())
	return dispatcher.Run(ctx)
}

func loadCTY(cfg *config.Config) *cty.Database {
	path := cfg.GetCTYFile()
	if path == "" {
		return nil
	}
	db, err := cty.Load(path)
	if err != nil {
		// Without entity data every new call grades as new DXCC;
		// the server still runs.
		log.Printf("cty: %v, DXCC grading degraded", err)
		return nil
	}
	log.Printf("cty: %d prefixes loaded from %s", db.Size(), path)
	return db
}

func loadLog(cfg *config.Config) []adif.Record {
	f, err := os.Open(cfg.GetADIFFile())
	if err != nil {
		log.Printf("logbook: %v, starting with an empty log", err)
		return nil
	}
	defer f.Close()

	records, err := adif.Parse(f)
	if err != nil {
		log.Printf("logbook: parse %s: %v, starting with an empty log", cfg.GetADIFFile(), err)
		return nil
	}
	log.Printf("logbook: %d contacts from %s", len(records), cfg.GetADIFFile())
	return records
}

// buildLookup prefers the database backend when enabled, falling back
// to the in-memory log on any database failure.
func buildLookup(cfg *config.Config, records []adif.Record, ctyDB *cty.Database) lookup.ContactLookup {
	if !cfg.GetDatabaseEnabled() {
		return lookup.NewMemoryLookup(records, ctyDB)
	}

	dbLog := log.New(os.Stdout, "[DB] ", log.LstdFlags)
	db, err := database.NewDB(database.Config{Path: cfg.GetDatabasePath()}, dbLog)
	if err != nil {
		log.Printf("database: %v, falling back to in-memory log", err)
		return lookup.NewMemoryLookup(records, ctyDB)
	}

	repo := database.NewQSORepository(db.GetDB())
	count, err := repo.Count()
	if err != nil {
		log.Printf("database: %v, falling back to in-memory log", err)
		return lookup.NewMemoryLookup(records, ctyDB)
	}

	// First run: seed the database from the ADIF log.
	if count == 0 && len(records) > 0 {
		qsos := make([]database.QSO, 0, len(records))
		for _, rec := range records {
			if rec.Usable() {
				qsos = append(qsos, database.QSOFromRecord(rec))
			}
		}
		inserted, err := repo.InsertBatch(qsos)
		if err != nil {
			dbLog.Printf("log import incomplete: %v", err)
		}
		dbLog.Printf("imported %d contacts from %s", inserted, cfg.GetADIFFile())
	}

	dl := lookup.NewDatabaseLookupWithConfig(repo, ctyDB, lookup.DatabaseLookupConfig{
		CacheSize: int(cfg.GetDatabaseCache()),
	})
	if err := dl.Start(); err != nil {
		log.Printf("database: %v, falling back to in-memory log", err)
		return lookup.NewMemoryLookup(records, ctyDB)
	}
	return dl
}

// passThrough logs the occasional telegrams the dispatcher does not
// act on itself, so configuration switches and halts remain visible.
func passThrough(cfg *config.Config) network.TelegramHandler {
	routine := map[wire.Type]bool{
		wire.TypeHeartbeat:  true,
		wire.TypeStatus:     true,
		wire.TypeDecode:     true,
		wire.TypeWSPRDecode: true,
		wire.TypeQSOLogged:  true,
		wire.TypeLoggedADIF: true,
	}
	debug := cfg.GetDebug()
	return func(tel wire.Telegram, sender *net.UDPAddr) {
		if routine[tel.TelegramType()] && !debug {
			return
		}
		log.Printf("%s from %s (id %s)", tel.TelegramType(), sender, tel.Hdr().ID.S())
	}
}
