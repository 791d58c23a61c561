package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/djimit/PhishLens/internal/history"
)

const (
	// FileName is the database file created inside the data directory.
	FileName = "phishlens.db"

	// DefaultSlotName is the slot holding the scan history.
	DefaultSlotName = "phishlens_scan_history"
)

// ErrChecksumMismatch is returned when a stored payload does not match
// its checksum.
var ErrChecksumMismatch = errors.New("slot checksum mismatch")

// SlotDB provides SQLite-based storage for named slots.
type SlotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SlotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// DefaultDir returns the directory used when none is configured,
// e.g. ~/.local/share/phishlens on Linux.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "phishlens")
}

// Open opens or creates a SlotDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SlotDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SlotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SlotDB) Close() error {
	return sdb.db.Close()
}

// Path returns the database file path.
func (sdb *SlotDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SlotDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		checksum TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Slot returns the named slot. The row is not created until the first Write.
func (sdb *SlotDB) Slot(name string) *Slot {
	return &Slot{db: sdb.db, name: name}
}

// Slot is a single named entry in a SlotDB. It implements history.Slot.
type Slot struct {
	db   *sql.DB
	name string
}

var _ history.Slot = (*Slot)(nil)

// Name returns the slot key.
func (s *Slot) Name() string {
	return s.name
}

// Read returns the stored payload.
// It returns history.ErrSlotNotFound when the slot was never written or has
// been removed, and ErrChecksumMismatch when the payload is damaged.
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var payload, checksum string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, checksum FROM slots WHERE name = ?`, s.name,
	).Scan(&payload, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.name, err)
	}

	if sum(payload) != checksum {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, s.name)
	}

	return []byte(payload), nil
}

// Write replaces the stored payload.
func (s *Slot) Write(ctx context.Context, payload []byte) error {
	query := `
	INSERT INTO slots (name, payload, checksum)
	VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		payload = excluded.payload,
		checksum = excluded.checksum,
		updated_at = CURRENT_TIMESTAMP
	`

	text := string(payload)
	if _, err := s.db.ExecContext(ctx, query, s.name, text, sum(text)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.name, err)
	}
	return nil
}

// Remove deletes the slot. Removing a missing slot is not an error.
func (s *Slot) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, s.name); err != nil {
		return fmt.Errorf("failed to remove slot %s: %w", s.name, err)
	}
	return nil
}

// Exists reports whether the slot has a stored row.
// An empty list that was written is present; a cleared slot is not.
func (s *Slot) Exists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slots WHERE name = ?`, s.name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slot %s: %w", s.name, err)
	}
	return count > 0, nil
}

// UpdatedAt returns the time of the last write. The zero time is returned
// for a missing slot.
func (s *Slot) UpdatedAt(ctx context.Context) (time.Time, error) {
	var timestamp string
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM slots WHERE name = ?`, s.name,
	).Scan(&timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read slot %s: %w", s.name, err)
	}
	return parseTimestamp(timestamp), nil
}

// sum returns the hex SHA3-256 digest of payload.
func sum(payload string) string {
	digest := sha3.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
