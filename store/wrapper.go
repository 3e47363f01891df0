/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/nethesis/tol/db"
	"github.com/nethesis/tol/logs"
)

// ErrNoDatabase is the cause of the error returned by NewWrapper when no
// pool is available.
var ErrNoDatabase = errors.New("database resource not available")

// StorageError wraps every failure raised while talking to the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "[STORE] " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Wrapper runs the register queries. Each method takes its own connection
// from the pool and gives it back before returning.
type Wrapper struct {
	db      *sql.DB
	dialect db.Dialect
	sql     squirrel.StatementBuilderType
}

// NewWrapper binds the wrapper to a pool opened at startup.
func NewWrapper(pool *sql.DB, dialect db.Dialect) (*Wrapper, error) {
	if pool == nil {
		return nil, &StorageError{Op: "new wrapper", Err: ErrNoDatabase}
	}
	return &Wrapper{
		db:      pool,
		dialect: dialect,
		sql:     dialect.Builder(),
	}, nil
}

// withConn acquires a connection, runs fn and releases the connection. A
// failure to release is reported only when fn succeeded, otherwise it is
// logged and the error from fn is returned.
func (w *Wrapper) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) (err error) {
	conn, err := w.db.Conn(ctx)
	if err != nil {
		logs.Log("[ERROR][STORE] " + op + ": cannot acquire connection: " + err.Error())
		return newStorageError(op, errors.Wrap(err, "acquire connection"))
	}

	defer func() {
		if cerr := conn.Close(); cerr != nil {
			if err == nil {
				err = newStorageError(op, errors.Wrap(cerr, "release connection"))
				return
			}
			logs.Log("[WARNING][STORE] " + op + ": release failed after error: " + cerr.Error())
		}
	}()

	if ferr := fn(conn); ferr != nil {
		logs.Log("[ERROR][STORE] " + op + ": " + ferr.Error())
		return newStorageError(op, ferr)
	}
	return nil
}

// query runs a select and hands every row to scan.
func query(ctx context.Context, conn *sql.Conn, q squirrel.Sqlizer, scan func(rows *sql.Rows) error) error {
	stmt, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "build query")
	}

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "run query")
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return errors.Wrap(err, "scan row")
		}
	}
	return errors.Wrap(rows.Err(), "iterate rows")
}

func exec(ctx context.Context, conn *sql.Conn, q squirrel.Sqlizer) (sql.Result, error) {
	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build statement")
	}

	res, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "run statement")
	}
	return res, nil
}

// clock normalises a TIME column, which drivers return either as a
// time.Time or as raw text.
func clock(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("15:04:05")
	case []byte:
		return string(t)
	case string:
		return t
	}
	return fmt.Sprint(v)
}

func datePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
