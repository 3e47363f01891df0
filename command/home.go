/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"context"

	"github.com/nethesis/tol/models"
)

// HomeCommand shows the login page, or the landing page of a survey once
// the user is logged in. It is the only action available before login.
type HomeCommand struct {
	deps *Deps
	item models.MenuItem
}

func (c *HomeCommand) Init(item models.MenuItem) error {
	if err := checkItem(item); err != nil {
		return err
	}
	c.item = item
	return nil
}

func (c *HomeCommand) Execute(ctx context.Context, req *Request) (*Result, error) {
	params := NewParameterParser(req.Params)

	if code := params.Code(ParamSurvey); code != "" {
		if survey, ok := c.deps.Surveys.ByCode(code); ok {
			if err := requireUser(req); err != nil {
				return nil, err
			}
			res := newResult(PageLanding)
			res.Attributes[AttrSurvey] = survey
			res.Attributes[AttrParams] = loadParams(params)
			res.Attributes[AttrBreadcrumbs] = c.deps.BreadCrumbs(req.RawQuery, "")
			return res, nil
		}
	}

	res := newResult(c.item.Page)
	if req.User != nil {
		res.Attributes[AttrError] = true
		res.Attributes[AttrMessage] = "Funzione non trovata."
		res.Attributes[AttrBreadcrumbs] = c.deps.BreadCrumbs(req.RawQuery, "")
	}
	return res, nil
}
