// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package store is a reference sqlite-backed implementation of the
// revset package's Repository and GenerationCache interfaces.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"

	"github.com/hgwire/hgwired/internal/config"
	"github.com/hgwire/hgwired/internal/revset"
)

// Store is a sqlite-backed changeset/generation repository. It implements
// revset.Repository directly; revset.GenerationCache lookups go through
// the in-memory revset.MemoCache wrapping it, which is itself fronted by
// the durable generations table so a cold-started process doesn't have
// to recompute every generation by re-walking Parents (see Open).
type Store struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

var _ revset.Repository = (*Store)(nil)

// Open opens (creating if necessary) the sqlite database at cfg.Path,
// applies pending migrations, and returns a Store, a GenerationCache
// backed first by the persisted generations table and falling through to
// an in-memory MemoCache over the Store's own Parents lookups, and that
// MemoCache on its own (so callers such as the maintenance scheduler can
// still prune its in-process LRU directly).
func Open(cfg config.StoreConfig) (*Store, revset.GenerationCache, *revset.MemoCache, error) {
	driverName := "sqlite3"
	if cfg.LogSlowQueries {
		driverName = registerHookedDriver()
	}

	db, err := sqlx.Connect(driverName, cfg.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store at %q: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1) // go-sqlite3 serializes writers; keep it simple.

	if err := migrateUp(db.DB); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("migrating store: %w", err)
	}

	s := &Store{db: db, builder: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	maxEntries := cfg.MaxGenerationEntries
	if maxEntries <= 0 {
		maxEntries = 1_000_000
	}
	memo := revset.NewMemoCache(s, maxEntries)
	return s, &persistedGenerationCache{store: s, inner: memo}, memo, nil
}

// persistedGenerationCache checks the generations table before falling
// through to inner (an in-memory MemoCache wrapping the same Store's
// Parents), persisting whatever inner computes back into the table. This
// is the read-through/write-through layer that makes generation lookups
// survive a process restart instead of recomputing the whole ancestor
// walk from scratch every time the process comes up cold.
type persistedGenerationCache struct {
	store *Store
	inner revset.GenerationCache
}

var _ revset.GenerationCache = (*persistedGenerationCache)(nil)

func (c *persistedGenerationCache) Generation(ctx context.Context, hash revset.NodeHash) (revset.Generation, error) {
	gen, ok, err := c.store.GetGeneration(ctx, hash)
	if err != nil {
		return 0, err
	}
	if ok {
		return gen, nil
	}
	gen, err = c.inner.Generation(ctx, hash)
	if err != nil {
		return 0, err
	}
	if err := c.store.PutGeneration(ctx, hash, gen); err != nil {
		return 0, err
	}
	return gen, nil
}

// GetGeneration looks up a previously persisted generation for hash.
func (s *Store) GetGeneration(ctx context.Context, hash revset.NodeHash) (revset.Generation, bool, error) {
	query, args, err := s.builder.
		Select("generation").
		From("generations").
		Where(sq.Eq{"hash": hash[:]}).
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var generation int64
	if err := s.db.GetContext(ctx, &generation, s.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return revset.Generation(generation), true, nil
}

// PutGeneration persists hash's generation, overwriting any prior value.
func (s *Store) PutGeneration(ctx context.Context, hash revset.NodeHash, gen revset.Generation) error {
	query, args, err := s.builder.
		Insert("generations").
		Columns("hash", "generation").
		Values(hash[:], int64(gen)).
		Suffix("ON CONFLICT(hash) DO UPDATE SET generation=excluded.generation").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Parents implements revset.Repository.
func (s *Store) Parents(ctx context.Context, hash revset.NodeHash) ([]revset.NodeHash, error) {
	query, args, err := s.builder.
		Select("parent1", "parent2").
		From("changesets").
		Where(sq.Eq{"hash": hash[:]}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row struct {
		Parent1 []byte `db:"parent1"`
		Parent2 []byte `db:"parent2"`
	}
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &revset.ErrNoSuchNode{Hash: hash}
		}
		return nil, err
	}

	var parents []revset.NodeHash
	if p := asHash(row.Parent1); p != nil {
		parents = append(parents, *p)
	}
	if p := asHash(row.Parent2); p != nil {
		parents = append(parents, *p)
	}
	return parents, nil
}

// PutChangeset records a changeset and its (zero, one, or two) parents.
// It is how changesets get into the store; not part of revset.Repository.
func (s *Store) PutChangeset(ctx context.Context, hash revset.NodeHash, parents []revset.NodeHash) error {
	var p1, p2 []byte
	if len(parents) > 0 {
		p1 = parents[0][:]
	}
	if len(parents) > 1 {
		p2 = parents[1][:]
	}
	query, args, err := s.builder.
		Insert("changesets").
		Columns("hash", "parent1", "parent2").
		Values(hash[:], p1, p2).
		Suffix("ON CONFLICT(hash) DO UPDATE SET parent1=excluded.parent1, parent2=excluded.parent2").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

func asHash(b []byte) *revset.NodeHash {
	if len(b) != 20 {
		return nil
	}
	var h revset.NodeHash
	copy(h[:], b)
	return &h
}

func migrateUp(db *sql.DB) error {
	driver, err := migratesqlite3.WithInstance(db, &migratesqlite3.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// hookedDriverRegistered guards against registering the sqlhooks-wrapped
// driver more than once per process, which database/sql forbids.
var hookedDriverRegistered bool

func registerHookedDriver() string {
	const name = "sqlite3-hooked"
	if !hookedDriverRegistered {
		sql.Register(name, sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &slowQueryHook{}))
		hookedDriverRegistered = true
	}
	return name
}

type slowQueryHook struct{}

func (h *slowQueryHook) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	return ctx, nil
}

func (h *slowQueryHook) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	cclog.Debugf("store: query %q", query)
	return ctx, nil
}
