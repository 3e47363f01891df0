/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"net/url"
	"strings"

	"github.com/nethesis/tol/models"
)

const homeLabel = "Home"

type queryParam struct {
	name  string
	value string
}

// orderedQuery splits a raw query keeping the order of the parameters.
func orderedQuery(rawQuery string) []queryParam {
	var params []queryParam
	for _, couple := range strings.Split(rawQuery, "&") {
		if couple == "" {
			continue
		}
		name, value, _ := strings.Cut(couple, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		params = append(params, queryParam{name: name, value: value})
	}
	return params
}

// BreadCrumbs builds the navigation trail for a query string. The first
// crumb always leads home within the requested survey, or the latest one
// when the requested survey is unknown. Level parameters never produce a
// crumb and extra, when not empty, is appended as the last label.
func (d *Deps) BreadCrumbs(rawQuery string, extra string) []models.Breadcrumb {
	params := orderedQuery(rawQuery)

	surveyCode := ""
	for _, p := range params {
		if p.name == ParamSurvey {
			surveyCode = p.value
		}
	}
	if _, ok := d.Surveys.ByCode(surveyCode); !ok {
		surveyCode = ""
		if latest := d.Surveys.Latest(); latest != nil {
			surveyCode = latest.Code
		}
	}

	base := "/" + strings.Trim(d.AppName, "/") + "/?"
	surveyToken := ParamSurvey + "=" + url.QueryEscape(surveyCode)
	home := base + d.EntityParam + "=" + TokenHome + "&" + surveyToken

	nav := []models.Breadcrumb{{URL: home, Label: homeLabel}}
	for _, p := range params {
		if p.name != d.EntityParam {
			continue
		}
		link := base + p.name + "=" + url.QueryEscape(p.value) + "&" + surveyToken
		if link == home {
			continue
		}
		nav = append(nav, models.Breadcrumb{URL: link, Label: d.label(p.value)})
	}

	return TrimBreadCrumbs(nav, 0, extra)
}

// TrimBreadCrumbs removes the last items crumbs and appends extra as the
// final leaf when it is not empty.
func TrimBreadCrumbs(nav []models.Breadcrumb, items int, extra string) []models.Breadcrumb {
	if items > len(nav) {
		items = len(nav)
	}
	if items > 0 {
		nav = nav[:len(nav)-items]
	}
	if extra != "" {
		nav = append(nav, models.Breadcrumb{URL: extra, Label: extra})
	}
	return nav
}
