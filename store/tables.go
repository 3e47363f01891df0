/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

// Table is one of the tables whose integer id can be bounded.
type Table int

const (
	TableAccessLog Table = iota + 1
	TableSurvey
	TableCommand
	TablePerson
	TableUser
)

var tableNames = map[Table]string{
	TableAccessLog: "access_log",
	TableSurvey:    "rilevazione",
	TableCommand:   "command",
	TablePerson:    "persona",
	TableUser:      "usr",
}

func (t Table) String() string {
	if name, ok := tableNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Table(%d)", int(t))
}

// GetMax returns the highest id of the table, 0 when it is empty.
func (w *Wrapper) GetMax(ctx context.Context, t Table) (int, error) {
	return w.idBound(ctx, "get max", "MAX(id)", t)
}

// GetMin returns the lowest id of the table, 0 when it is empty.
func (w *Wrapper) GetMin(ctx context.Context, t Table) (int, error) {
	return w.idBound(ctx, "get min", "MIN(id)", t)
}

func (w *Wrapper) idBound(ctx context.Context, op string, column string, t Table) (int, error) {
	name, ok := tableNames[t]
	if !ok {
		return 0, newStorageError(op, errors.Errorf("table %s is not allowed", t))
	}

	var bound sql.NullInt64
	err := w.withConn(ctx, op, func(conn *sql.Conn) error {
		return query(ctx, conn, w.sql.Select(column).From(name), func(rows *sql.Rows) error {
			return rows.Scan(&bound)
		})
	})
	if err != nil {
		return 0, err
	}
	return int(bound.Int64), nil
}
