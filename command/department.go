/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"context"

	"github.com/nethesis/tol/models"
)

// DepartmentCommand lists the departments of a survey.
type DepartmentCommand struct {
	deps *Deps
	item models.MenuItem
}

func (c *DepartmentCommand) Init(item models.MenuItem) error {
	if err := checkItem(item); err != nil {
		return err
	}
	c.item = item
	return nil
}

func (c *DepartmentCommand) Execute(ctx context.Context, req *Request) (*Result, error) {
	if err := requireUser(req); err != nil {
		return nil, err
	}

	params := NewParameterParser(req.Params)
	survey, err := resolveSurvey(c.deps, params, req)
	if err != nil {
		return nil, err
	}

	st, err := c.deps.openStorage()
	if err != nil {
		return nil, err
	}

	departments, err := st.GetDepartments(ctx, survey)
	if err != nil {
		return nil, Fail(KindStorage, "impossibile recuperare le strutture", err)
	}

	res := newResult(c.item.Page)
	res.Attributes[AttrSurvey] = survey
	res.Attributes[AttrDepartments] = departments
	res.Attributes[AttrParams] = loadParams(params)
	res.Attributes[AttrBreadcrumbs] = c.deps.BreadCrumbs(req.RawQuery, "")
	return res, nil
}

// resolveSurvey reads the survey code of the request. A missing or unknown
// code drops the session.
func resolveSurvey(deps *Deps, params ParameterParser, req *Request) (*models.Survey, error) {
	code := params.Code(ParamSurvey)
	if survey, ok := deps.Surveys.ByCode(code); ok && code != "" {
		return survey, nil
	}

	req.invalidate()
	return nil, Fail(KindNavigation, "indirizzo richiesto non valido", nil)
}
