/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/nethesis/tol/models"
)

const (
	digestRounds = 10000
	digestLength = 32
)

// DigestPassword derives the stored form of a password from its salt.
func DigestPassword(password string, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), digestRounds, digestLength, sha256.New)
	return hex.EncodeToString(key)
}

// GetEncryptedPassword returns the digest and salt stored for a login, or
// nil when the login does not exist.
func (w *Wrapper) GetEncryptedPassword(ctx context.Context, login string) (*models.Credential, error) {
	var cred *models.Credential

	q := w.sql.Select("U.passwdform", "U.salt").
		From("usr U").
		Where(squirrel.Eq{"U.login": login})

	err := w.withConn(ctx, "get encrypted password", func(conn *sql.Conn) error {
		return query(ctx, conn, q, func(rows *sql.Rows) error {
			var digest, salt sql.NullString
			if err := rows.Scan(&digest, &salt); err != nil {
				return err
			}
			cred = &models.Credential{Digest: digest.String, Salt: salt.String}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// AuthenticateUser looks up the user matching login and password and
// attaches its roles. The password is checked against both the plain and
// the digest column. It returns nil when nothing matches.
func (w *Wrapper) AuthenticateUser(ctx context.Context, login string, password string) (*models.SessionUser, error) {
	var user *models.SessionUser

	userQuery := w.sql.Select(
		"U.id", "P.id", "P.nome", "P.cognome", "P.email",
	).
		From("usr U").
		Join("persona P ON P.id = U.id_persona").
		Where(squirrel.Eq{"U.login": login}).
		Where(squirrel.Or{squirrel.Eq{"U.passwd": nil}, squirrel.Eq{"U.passwd": password}}).
		Where(squirrel.Or{squirrel.Eq{"U.passwdform": nil}, squirrel.Eq{"U.passwdform": password}})

	roleQuery := w.sql.Select("RA.id", "RA.nome").
		From("ruolo_applicativo RA").
		Join("usr U ON RA.id = U.id_ruolo").
		Where(squirrel.Eq{"U.login": login})

	err := w.withConn(ctx, "authenticate user", func(conn *sql.Conn) error {
		err := query(ctx, conn, userQuery, func(rows *sql.Rows) error {
			var email sql.NullString
			u := &models.SessionUser{Login: login}
			if err := rows.Scan(&u.UserID, &u.ID, &u.Name, &u.Surname, &email); err != nil {
				return err
			}
			u.Email = email.String
			user = u
			return nil
		})
		if err != nil || user == nil {
			return err
		}

		return query(ctx, conn, roleQuery, func(rows *sql.Rows) error {
			var role models.Item
			if err := rows.Scan(&role.ID, &role.Name); err != nil {
				return err
			}
			user.Roles = append(user.Roles, role)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RecordAccess stores the last access of a login in one atomic statement.
func (w *Wrapper) RecordAccess(ctx context.Context, login string) error {
	if login == "" {
		return newStorageError("record access", errors.New("empty login"))
	}

	q := w.sql.Insert("access_log").
		Columns("login", "data_ultimo_accesso", "ora_ultimo_accesso").
		Values(login, squirrel.Expr("CURRENT_DATE"), squirrel.Expr("CURRENT_TIME")).
		Suffix(w.dialect.UpsertAccessSuffix())

	return w.withConn(ctx, "record access", func(conn *sql.Conn) error {
		_, err := exec(ctx, conn, q)
		return err
	})
}
