/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import "time"

// SessionUser is the authenticated person together with its roles.
type SessionUser struct {
	ID      int    `json:"id" structs:"id"`
	UserID  int    `json:"user_id" structs:"user_id"`
	Login   string `json:"login" structs:"login"`
	Name    string `json:"name" structs:"name"`
	Surname string `json:"surname" structs:"surname"`
	Email   string `json:"email,omitempty" structs:"email"`
	Roles   []Item `json:"roles" structs:"roles"`
}

// Credential is the stored password digest and its salt.
type Credential struct {
	Digest string
	Salt   string
}

// UserSession is one live login, keyed by the token id.
type UserSession struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	User      *SessionUser `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}

type LoginJson struct {
	Username string `json:"username" form:"username" structs:"username" binding:"required"`
	Password string `json:"password" form:"password" structs:"password" binding:"required"`
}
