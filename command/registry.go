/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"github.com/pkg/errors"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

// factories is the closed set of actions the application knows.
var factories = map[string]func(deps *Deps) Command{
	TokenHome:       func(deps *Deps) Command { return &HomeCommand{deps: deps} },
	TokenDepartment: func(deps *Deps) Command { return &DepartmentCommand{deps: deps} },
	TokenRegister:   func(deps *Deps) Command { return &RegisterCommand{deps: deps} },
}

// Registry maps action tokens to initialized commands.
type Registry struct {
	commands map[string]Command
	items    map[string]models.MenuItem
}

// NewRegistry initializes one command per menu row that has a handler.
// Rows without a handler are skipped; a row with no view is an error.
func NewRegistry(items []models.MenuItem, deps *Deps) (*Registry, error) {
	r := &Registry{
		commands: map[string]Command{},
		items:    map[string]models.MenuItem{},
	}

	deps.menu = map[string]models.MenuItem{}
	for _, item := range items {
		deps.menu[item.Token] = item
	}

	for _, item := range items {
		factory, ok := factories[item.Token]
		if !ok {
			logs.Log("[WARNING][COMMAND] No handler for action token " + item.Token + ", skipped")
			continue
		}

		cmd := factory(deps)
		if err := cmd.Init(item); err != nil {
			return nil, errors.Wrapf(err, "init command %s", item.Token)
		}
		r.commands[item.Token] = cmd
		r.items[item.Token] = item
	}

	return r, nil
}

// Lookup returns the command bound to a token.
func (r *Registry) Lookup(token string) (Command, bool) {
	cmd, ok := r.commands[token]
	return cmd, ok
}

// Item returns the menu row bound to a token.
func (r *Registry) Item(token string) (models.MenuItem, bool) {
	item, ok := r.items[token]
	return item, ok
}

func checkItem(item models.MenuItem) error {
	if item.Page == "" {
		return Fail(KindInternal, "pagina non definita per "+item.Token, nil)
	}
	return nil
}
