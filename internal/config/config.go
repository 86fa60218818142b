package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the worked-before server configuration. Defaults
// come from the environment where the original tooling defined them
// (WBF_PATH, WBF_CALL, WBF_LOC, WBF_HIGHLIGHT); the INI file overrides.
type Config struct {
	filename string

	// Server section
	id      string
	address string
	port    uint32

	// Station section
	callsign      string
	locator       string
	setLocatorMsg bool

	// Logbook section
	adifFile        string
	adifEncoding    string
	databaseEnabled bool
	databasePath    string
	databaseCache   uint32

	// DXCC section
	ctyFile   string
	highlight map[string]int64

	// Log section
	debug bool
}

// NewConfig creates a new configuration instance with defaults
func NewConfig(filename string) *Config {
	home, _ := os.UserHomeDir()

	c := &Config{
		filename: filename,

		id:      "wbf-server",
		address: "127.0.0.1",
		port:    2237,

		callsign: envOr("WBF_CALL", "OE3RSU"),
		locator:  envOr("WBF_LOC", "JN88dg"),

		adifFile:      envOr("WBF_PATH", filepath.Join(home, ".local/share/WSJT-X/wsjtx_log.adi")),
		adifEncoding:  "utf-8",
		databasePath:  "data/wsjtx_log.db",
		databaseCache: 1000,

		highlight: parseHighlight(os.Getenv("WBF_HIGHLIGHT")),
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load loads configuration from the specified file
func (c *Config) Load() error {
	file, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %v", c.filename, err)
	}
	defer file.Close()

	return c.parseINIScanner(bufio.NewScanner(file))
}

// LoadFromString loads configuration from a string (useful for testing)
func (c *Config) LoadFromString(data string) error {
	return c.parseINIScanner(bufio.NewScanner(strings.NewReader(data)))
}

func (c *Config) parseINIScanner(scanner *bufio.Scanner) error {
	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		// Check for section header
		if line[0] == '[' && line[len(line)-1] == ']' {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		// Parse key=value pairs
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Server":
			c.parseServerSection(key, value)
		case "Station":
			c.parseStationSection(key, value)
		case "Logbook":
			c.parseLogbookSection(key, value)
		case "DXCC":
			c.parseDXCCSection(key, value)
		case "Log":
			c.parseLogSection(key, value)
		}
	}

	return scanner.Err()
}

func (c *Config) parseServerSection(key, value string) {
	switch key {
	case "Id":
		c.id = value
	case "Address":
		c.address = value
	case "Port":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.port = uint32(v)
		}
	}
}

func (c *Config) parseStationSection(key, value string) {
	switch key {
	case "Callsign":
		c.callsign = value
	case "Locator":
		c.locator = value
	case "SetLocatorMessage":
		c.setLocatorMsg = c.parseBool(value)
	}
}

func (c *Config) parseLogbookSection(key, value string) {
	switch key {
	case "ADIFFile":
		c.adifFile = value
	case "Encoding":
		c.adifEncoding = value
	case "DatabaseEnabled":
		c.databaseEnabled = c.parseBool(value)
	case "DatabasePath":
		c.databasePath = value
	case "CacheSize":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.databaseCache = uint32(v)
		}
	}
}

func (c *Config) parseDXCCSection(key, value string) {
	switch key {
	case "CTYFile":
		c.ctyFile = value
	case "Highlight":
		c.highlight = parseHighlight(value)
	}
}

func (c *Config) parseLogSection(key, value string) {
	switch key {
	case "Debug":
		c.debug = c.parseBool(value)
	}
}

func (c *Config) parseBool(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

// parseHighlight parses "206,344:5" style lists: entity codes with an
// optional per-entity contact threshold after which highlighting
// stops. A bare code means always highlight.
func parseHighlight(value string) map[string]int64 {
	out := make(map[string]int64)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		entity := item
		var threshold int64
		if k, v, found := strings.Cut(item, ":"); found {
			entity = strings.TrimSpace(k)
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				continue
			}
			threshold = n
		}
		// Zero-pad numeric codes to the canonical three digits.
		if n, err := strconv.Atoi(entity); err == nil {
			entity = fmt.Sprintf("%03d", n)
		}
		out[entity] = threshold
	}
	return out
}

// Server getters
func (c *Config) GetId() string      { return c.id }
func (c *Config) GetAddress() string { return c.address }
func (c *Config) GetPort() uint32    { return c.port }

// Station getters
func (c *Config) GetCallsign() string        { return c.callsign }
func (c *Config) GetLocator() string         { return c.locator }
func (c *Config) GetSetLocatorMessage() bool { return c.setLocatorMsg }

// Logbook getters
func (c *Config) GetADIFFile() string      { return c.adifFile }
func (c *Config) GetADIFEncoding() string  { return c.adifEncoding }
func (c *Config) GetDatabaseEnabled() bool { return c.databaseEnabled }
func (c *Config) GetDatabasePath() string  { return c.databasePath }
func (c *Config) GetDatabaseCache() uint32 { return c.databaseCache }

// DXCC getters
func (c *Config) GetCTYFile() string             { return c.ctyFile }
func (c *Config) GetHighlight() map[string]int64 { return c.highlight }

// Log getters
func (c *Config) GetDebug() bool { return c.debug }
