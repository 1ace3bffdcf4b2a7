// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-engine/pkg/types"
)

const cacheDBFile = "research.db"

// Store is the SQLite research cache. Entries are keyed by topic and
// depth, so a deep run never serves a shallow run's results.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the research cache database under cacheDir.
func OpenStore(cacheDir string) (*Store, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, cacheDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS research_cache (
			key TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			deep INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_research_cache_topic ON research_cache(topic)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// cacheKey hashes topic and depth into the cache's primary key.
func cacheKey(topic string, deep bool) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%t", topic, deep))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached research data for topic and depth, or ok=false
// on a cache miss.
func (s *Store) Get(ctx context.Context, topic string, deep bool) (*types.ResearchData, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM research_cache WHERE key = ?`, cacheKey(topic, deep),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying research cache: %w", err)
	}

	var data types.ResearchData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false, fmt.Errorf("decoding cached research: %w", err)
	}
	return &data, true, nil
}

// Put stores research data for topic and depth, replacing any prior entry.
func (s *Store) Put(ctx context.Context, topic string, deep bool, data *types.ResearchData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding research data: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO research_cache (key, topic, deep, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		cacheKey(topic, deep), topic, boolInt(deep), string(raw),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing research cache: %w", err)
	}
	return nil
}

// Clear drops every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM research_cache`); err != nil {
		return fmt.Errorf("clearing research cache: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
