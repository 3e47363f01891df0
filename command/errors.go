/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"github.com/pkg/errors"

	"github.com/nethesis/tol/logs"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindNavigation
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNavigation:
		return "navigation"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage"
	}
	return "internal"
}

// Error is the single error type raised by the commands.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "[COMMAND][" + e.Kind.String() + "] " + e.Msg + ": " + e.Err.Error()
	}
	return "[COMMAND][" + e.Kind.String() + "] " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fail builds a command error and logs it.
func Fail(kind Kind, msg string, err error) *Error {
	e := &Error{Kind: kind, Msg: msg, Err: err}
	if kind == KindStorage || kind == KindInternal {
		logs.Log("[ERROR]" + e.Error())
	} else {
		logs.Log("[INFO]" + e.Error())
	}
	return e
}

// KindOf returns the kind of a command error, KindInternal for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user facing message of a command error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Errore interno."
}
