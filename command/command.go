/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"context"
	"net/url"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/store"
)

// Action tokens with a handler.
const (
	TokenHome       = "home"
	TokenDepartment = "dep"
	TokenRegister   = "reg"
)

// Views that are not bound to a menu row.
const (
	PageLogin   = "/jsp/login.jsp"
	PageLanding = "/jsp/landing.jsp"
	PageDetail  = "/jsp/trTrattamento.jsp"
)

// Attribute names read by the views and by the exporters.
const (
	AttrProcessing  = "trattamento"
	AttrRegister    = "registro"
	AttrParams      = "params"
	AttrBreadcrumbs = "breadCrumbs"
	AttrPage        = "fileJsp"
	AttrSurvey      = "rilevazione"
	AttrDepartments = "strutture"
	AttrError       = "error"
	AttrMessage     = "msg"
)

// Output formats handled outside the views.
const (
	OutputPDF  = "pdf"
	OutputCSV  = "csv"
	OutputXLSX = "xls"
)

// Command is one application action.
type Command interface {
	// Init binds the menu row of the action. It fails when the row has no view.
	Init(item models.MenuItem) error
	Execute(ctx context.Context, req *Request) (*Result, error)
}

// Request is what a command sees of an incoming request.
type Request struct {
	Params     url.Values
	RawQuery   string
	User       *models.SessionUser
	Output     string
	Invalidate func()
}

func (r *Request) invalidate() {
	if r.Invalidate != nil {
		r.Invalidate()
	}
}

// IsExport reports whether the request asks for a file instead of a view.
func (r *Request) IsExport() bool {
	return IsExport(r.Output)
}

// IsExport reports whether output names a file format.
func IsExport(output string) bool {
	switch output {
	case OutputPDF, OutputCSV, OutputXLSX:
		return true
	}
	return false
}

// Result is the view to show with the attributes it reads.
type Result struct {
	Page       string
	Attributes map[string]interface{}
}

func newResult(page string) *Result {
	return &Result{
		Page:       page,
		Attributes: map[string]interface{}{AttrPage: page},
	}
}

// Storage is the part of the data access wrapper used by the commands.
type Storage interface {
	GetProcessingActivities(ctx context.Context, survey *models.Survey) ([]*models.ProcessingActivity, error)
	GetProcessingActivityDetail(ctx context.Context, user *models.SessionUser, code string, status store.StatusFilter, survey *models.Survey) (*models.ProcessingActivity, error)
	GetDepartments(ctx context.Context, survey *models.Survey) ([]*models.Department, error)
}

// Surveys resolves survey codes against the application catalog.
type Surveys interface {
	ByCode(code string) (*models.Survey, bool)
	Latest() *models.Survey
}

// Deps is shared by every command.
type Deps struct {
	// Storage opens the data access wrapper for one execution.
	Storage     func() (Storage, error)
	Surveys     Surveys
	AppName     string
	EntityParam string

	menu map[string]models.MenuItem
}

func (d *Deps) label(token string) string {
	if item, ok := d.menu[token]; ok && item.Label != "" {
		return item.Label
	}
	return token
}

func (d *Deps) openStorage() (Storage, error) {
	if d.Storage == nil {
		return nil, Fail(KindStorage, "archivio non disponibile", store.ErrNoDatabase)
	}
	s, err := d.Storage()
	if err != nil {
		return nil, Fail(KindStorage, "archivio non disponibile", err)
	}
	return s, nil
}

func requireUser(req *Request) error {
	if req.User == nil {
		logs.Log("[WARNING][COMMAND] Unauthenticated access attempt")
		return Fail(KindAuthentication, "Sessione scaduta o utente non autenticato.", nil)
	}
	return nil
}
