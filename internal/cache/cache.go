// Package cache memoizes per-file extraction results keyed by a content hash,
// in memory and optionally in PostgreSQL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"jsxgettext/internal/catalog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// Store looks up and records the entries extracted from one source file.
type Store interface {
	Get(ctx context.Context, key string) (catalog.Entries, bool)
	Set(ctx context.Context, key string, entries catalog.Entries) error
}

// DB is the subset of a pgx pool used by the cache.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const tableName = "extraction_cache"

const schemaSQL = `CREATE TABLE IF NOT EXISTS extraction_cache (
	hash       TEXT PRIMARY KEY,
	entries    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ExtractionCache provides in-memory + PostgreSQL-backed caching of extraction
// results. A nil DB keeps it memory only.
type ExtractionCache struct {
	db     DB
	mu     sync.RWMutex
	memory map[string]catalog.Entries // hash → entries
}

// NewExtractionCache creates a cache. db may be nil.
func NewExtractionCache(db DB) *ExtractionCache {
	return &ExtractionCache{
		db:     db,
		memory: make(map[string]catalog.Entries),
	}
}

// EnsureSchema creates the cache table when it does not exist.
func (c *ExtractionCache) EnsureSchema(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	if _, err := c.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

// Get retrieves cached entries. The result is a copy the caller may modify.
func (c *ExtractionCache) Get(ctx context.Context, key string) (catalog.Entries, bool) {
	c.mu.RLock()
	if v, ok := c.memory[key]; ok {
		c.mu.RUnlock()
		return v.Clone(), true
	}
	c.mu.RUnlock()

	if c.db == nil {
		return nil, false
	}

	query, args, err := psql.Select("entries").
		From(tableName).
		Where(squirrel.Eq{"hash": key}).
		ToSql()
	if err != nil {
		log.Warn().Err(err).Msg("Build cache query")
		return nil, false
	}

	var raw []byte
	if err := c.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Err(err).Str("hash", key).Msg("Cache lookup failed")
		}
		return nil, false
	}

	var entries catalog.Entries
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Str("hash", key).Msg("Discarding undecodable cache row")
		return nil, false
	}
	if entries == nil {
		entries = make(catalog.Entries)
	}

	c.mu.Lock()
	c.memory[key] = entries
	c.mu.Unlock()

	return entries.Clone(), true
}

// Set stores entries in memory and, when configured, in PostgreSQL.
func (c *ExtractionCache) Set(ctx context.Context, key string, entries catalog.Entries) error {
	stored := entries.Clone()
	if stored == nil {
		stored = make(catalog.Entries)
	}

	c.mu.Lock()
	c.memory[key] = stored
	c.mu.Unlock()

	if c.db == nil {
		return nil
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	query, args, err := psql.Insert(tableName).
		Columns("hash", "entries", "updated_at").
		Values(key, raw, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (hash) DO UPDATE SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cache upsert: %w", err)
	}
	if _, err := c.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Len returns the number of entries held in memory.
func (c *ExtractionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}
