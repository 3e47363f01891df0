/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package db

import (
	"fmt"
	"net/url"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/nethesis/tol/configuration"
)

// Dialect identifies the SQL flavour spoken by the configured driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, MySQL:
		return Dialect(driver), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Builder returns a squirrel builder with the placeholder format of the dialect.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	if d == Postgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// UpsertAccessSuffix is appended to the access_log insert so that an
// existing row for the same login is updated in place.
func (d Dialect) UpsertAccessSuffix() string {
	if d == Postgres {
		return "ON CONFLICT (login) DO UPDATE SET " +
			"data_ultimo_accesso = EXCLUDED.data_ultimo_accesso, " +
			"ora_ultimo_accesso = EXCLUDED.ora_ultimo_accesso"
	}
	return "ON DUPLICATE KEY UPDATE " +
		"data_ultimo_accesso = VALUES(data_ultimo_accesso), " +
		"ora_ultimo_accesso = VALUES(ora_ultimo_accesso)"
}

func (d Dialect) gooseDialect() goose.Dialect {
	if d == Postgres {
		return goose.DialectPostgres
	}
	return goose.DialectMySQL
}

// DSN builds the driver connection string from the configuration.
func (d Dialect) DSN(cfg *configuration.Configuration) string {
	if d == Postgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
			Host:     cfg.DBHost + ":" + cfg.DBPort,
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=" + url.QueryEscape(cfg.DBSSLMode),
		}
		return u.String()
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)
}
