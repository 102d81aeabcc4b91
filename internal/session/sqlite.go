package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockLens/internal/logging"
)

// SQLiteStore persists session caches to a SQLite database so they survive restarts.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	log = logging.OrNop(log)
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer; the sweeper and the request handlers share one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite session store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id        TEXT PRIMARY KEY,
			last_seen INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen)`,

		`CREATE TABLE IF NOT EXISTS symbol_cache (
			session_id TEXT NOT NULL,
			raw        TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, raw)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Session(id string) Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO sessions (id, last_seen) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`, id, s.now().Unix())
	if err != nil {
		s.log.Warn("touch session failed", zap.String("session", id), zap.Error(err))
	}
	return &sqliteCache{store: s, id: id}
}

func (s *SQLiteStore) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM symbol_cache WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("reset session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Sweep(idle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle).Unix()
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin sweep: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM sessions WHERE last_seen < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM symbol_cache WHERE session_id NOT IN
		(SELECT id FROM sessions)`); err != nil {
		return 0, fmt.Errorf("sweep caches: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sweep: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite session store")
	return s.db.Close()
}

type sqliteCache struct {
	store *SQLiteStore
	id    string
}

func (c *sqliteCache) Get(raw string) (string, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var symbol string
	err := c.store.db.QueryRow(`SELECT symbol FROM symbol_cache WHERE session_id = ? AND raw = ?`,
		c.id, raw).Scan(&symbol)
	if err != nil {
		if err != sql.ErrNoRows {
			c.store.log.Warn("cache read failed", zap.String("session", c.id), zap.Error(err))
		}
		return "", false
	}
	return symbol, true
}

// Put also touches the owning session row, so a handle kept across a sweep
// never writes entries the next sweep cannot reach.
func (c *sqliteCache) Put(raw, symbol string) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.put(raw, symbol); err != nil {
		c.store.log.Warn("cache write failed", zap.String("session", c.id), zap.Error(err))
	}
}

func (c *sqliteCache) put(raw, symbol string) error {
	now := c.store.now().Unix()
	tx, err := c.store.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO sessions (id, last_seen) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`, c.id, now); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO symbol_cache (session_id, raw, symbol, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, raw) DO UPDATE SET symbol = excluded.symbol`,
		c.id, raw, symbol, now); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return tx.Commit()
}

func (c *sqliteCache) Clear() {
	if err := c.store.Reset(c.id); err != nil {
		c.store.log.Warn("cache clear failed", zap.String("session", c.id), zap.Error(err))
	}
}
