// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/daytrip/internal/domain"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects where waypoints are persisted: "sqlite" (default)
	// or "postgres".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required when
	// StoreDriver is "postgres".
	DatabaseURL string

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string

	// WaypointKey is the record key the waypoint set is stored under.
	WaypointKey string

	// ItineraryPath optionally replaces the embedded trip plan with a YAML file.
	ItineraryPath string

	// Location is the timezone the trip-day milestones are evaluated in.
	Location *time.Location

	Arrival       domain.TimeOfDay
	Onboard       domain.TimeOfDay
	ShipDeparture domain.TimeOfDay
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first value that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "daytrip.db"),
		WaypointKey:   getEnv("WAYPOINT_KEY", "customMarkers"),
		ItineraryPath: os.Getenv("ITINERARY_PATH"),
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q (want %s or %s)", cfg.StoreDriver, DriverSQLite, DriverPostgres)
	}

	var missing []string
	if cfg.StoreDriver == DriverPostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	loc, err := time.LoadLocation(getEnv("TRIP_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("TRIP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	for _, tv := range []struct {
		key, fallback string
		dst           *domain.TimeOfDay
	}{
		{"ARRIVAL_TIME", "07:00", &cfg.Arrival},
		{"ONBOARD_TIME", "16:30", &cfg.Onboard},
		{"SHIP_DEPARTURE_TIME", "17:00", &cfg.ShipDeparture},
	} {
		t, err := domain.ParseTimeOfDay(getEnv(tv.key, tv.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", tv.key, err)
		}
		*tv.dst = t
	}
	if cfg.Onboard < cfg.Arrival {
		return Config{}, fmt.Errorf("ONBOARD_TIME %s is before ARRIVAL_TIME %s", cfg.Onboard, cfg.Arrival)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given files (".env" when none are
// named) without overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
