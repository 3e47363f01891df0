/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/nethesis/tol/configuration"
	"github.com/nethesis/tol/logs"
)

var sqlOpenFunc = sql.Open

//go:embed migrations
var migrations embed.FS

// Open creates the connection pool for the configured driver and checks it
// with a ping. The pool is created once at startup and handed to the store.
func Open(cfg *configuration.Configuration) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}

	pool, err := sqlOpenFunc(string(dialect), dialect.DSN(cfg))
	if err != nil {
		logs.Log("[CRITICAL][DB] Failed to open database connection: " + err.Error())
		return nil, "", errors.Wrap(err, "open database")
	}

	// Configure connection pool
	pool.SetMaxOpenConns(cfg.DBMaxOpen)
	pool.SetMaxIdleConns(cfg.DBMaxIdle)
	pool.SetConnMaxLifetime(cfg.DBConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		logs.Log("[CRITICAL][DB] Failed to ping database: " + err.Error())
		pool.Close()
		return nil, "", errors.Wrap(err, "ping database")
	}

	logs.Log(fmt.Sprintf("[INFO][DB] Database connection established (%s)", dialect))
	return pool, dialect, nil
}

// Migrate applies the embedded migrations for the dialect.
func Migrate(ctx context.Context, pool *sql.DB, dialect Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(dialect))
	if err != nil {
		return errors.Wrap(err, "migrations for "+string(dialect))
	}

	provider, err := goose.NewProvider(dialect.gooseDialect(), pool, fsys)
	if err != nil {
		return errors.Wrap(err, "goose provider")
	}

	results, err := provider.Up(ctx)
	if err != nil {
		logs.Log("[CRITICAL][DB] Failed to apply migrations: " + err.Error())
		return errors.Wrap(err, "goose up")
	}

	for _, r := range results {
		logs.Log(fmt.Sprintf("[INFO][DB] Applied migration %s in %s", r.Source.Path, r.Duration))
	}
	logs.Log("[INFO][DB] Schema is up to date")
	return nil
}

// HealthCheck pings the pool with a short timeout.
func HealthCheck(ctx context.Context, pool *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return pool.PingContext(ctx)
}
