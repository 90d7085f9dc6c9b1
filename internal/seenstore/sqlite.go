package seenstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the seen-set so a restart does not re-notify the
// current first page. Each keyword gets its own namespace within the same
// database file.
type SQLiteStore struct {
	db      *sql.DB
	keyword string
	logger  zerolog.Logger
}

// NewSQLiteStore opens (creating if necessary) the seen-items database and
// ensures the schema exists.
func NewSQLiteStore(dataSourceName, keyword string, logger zerolog.Logger) (*SQLiteStore, error) {
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create seen-store directory %s: %w", dbDir, err)
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	s := &SQLiteStore{
		db:      db,
		keyword: keyword,
		logger:  logger.With().Str("component", "SQLiteSeenStore").Str("keyword", keyword).Logger(),
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize seen-store schema: %w", err)
	}

	s.logger.Info().Str("db_path", dataSourceName).Msg("Seen-store database initialized")
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS seen_items (
		keyword TEXT NOT NULL,
		item_id TEXT NOT NULL,
		first_seen_at DATETIME NOT NULL,
		PRIMARY KEY (keyword, item_id)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Add(id string) error {
	query := `INSERT OR IGNORE INTO seen_items (keyword, item_id, first_seen_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, s.keyword, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record seen item %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Contains(id string) bool {
	query := `SELECT 1 FROM seen_items WHERE keyword = ? AND item_id = ? LIMIT 1`
	var one int
	err := s.db.QueryRow(query, s.keyword, id).Scan(&one)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error().Err(err).Str("item_id", id).Msg("Seen-store lookup failed")
		}
		return false
	}
	return true
}

func (s *SQLiteStore) Len() int {
	query := `SELECT COUNT(*) FROM seen_items WHERE keyword = ?`
	var n int
	if err := s.db.QueryRow(query, s.keyword).Scan(&n); err != nil {
		s.logger.Error().Err(err).Msg("Seen-store count failed")
		return 0
	}
	return n
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
