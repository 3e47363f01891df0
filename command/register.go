/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"context"

	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/store"
)

const detailLabel = "Trattamento Dati"

// RegisterCommand shows the register of a survey, or one processing
// activity when idT is given. For file outputs it also collects the full
// records the exporters need.
type RegisterCommand struct {
	deps *Deps
	item models.MenuItem
}

func (c *RegisterCommand) Init(item models.MenuItem) error {
	if err := checkItem(item); err != nil {
		return err
	}
	c.item = item
	return nil
}

func (c *RegisterCommand) Execute(ctx context.Context, req *Request) (*Result, error) {
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

	var res *Result
	if code := params.Code(ParamProcessing); code != "" {
		res, err = c.detail(ctx, st, req, survey, code)
	} else {
		res, err = c.list(ctx, st, req, survey)
	}
	if err != nil {
		return nil, err
	}

	res.Attributes[AttrSurvey] = survey
	res.Attributes[AttrParams] = loadParams(params)
	return res, nil
}

func (c *RegisterCommand) detail(ctx context.Context, st Storage, req *Request, survey *models.Survey, code string) (*Result, error) {
	p, err := st.GetProcessingActivityDetail(ctx, req.User, code, store.AnyStatus, survey)
	if err != nil {
		return nil, Fail(KindStorage, "impossibile recuperare il trattamento", err)
	}
	if p == nil {
		return nil, Fail(KindNotFound, "Trattamento non trovato.", nil)
	}

	res := newResult(PageDetail)
	res.Attributes[AttrProcessing] = p
	res.Attributes[AttrBreadcrumbs] = c.deps.BreadCrumbs(req.RawQuery, detailLabel)
	if req.IsExport() {
		res.Attributes[AttrRegister] = []*models.ProcessingActivity{p}
	}
	return res, nil
}

func (c *RegisterCommand) list(ctx context.Context, st Storage, req *Request, survey *models.Survey) (*Result, error) {
	list, err := st.GetProcessingActivities(ctx, survey)
	if err != nil {
		return nil, Fail(KindStorage, "impossibile recuperare il registro", err)
	}

	if req.IsExport() {
		full := make([]*models.ProcessingActivity, 0, len(list))
		for _, item := range list {
			code, err := item.Code.Get()
			if err != nil {
				return nil, Fail(KindInternal, "trattamento senza codice", err)
			}
			p, err := st.GetProcessingActivityDetail(ctx, req.User, code, store.ActiveOnly, survey)
			if err != nil {
				return nil, Fail(KindStorage, "impossibile recuperare il trattamento "+code, err)
			}
			if p != nil {
				full = append(full, p)
			}
		}
		list = full
	}

	res := newResult(c.item.Page)
	res.Attributes[AttrRegister] = list
	res.Attributes[AttrBreadcrumbs] = c.deps.BreadCrumbs(req.RawQuery, "")
	return res, nil
}
