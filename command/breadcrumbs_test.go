/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nethesis/tol/models"
)

func testDeps() *Deps {
	return &Deps{
		Surveys: stubSurveys{
			"2023": {ID: 1, Code: "2023"},
			"2024": {ID: 2, Code: "2024"},
		},
		AppName:     "tol",
		EntityParam: "ent",
		menu: map[string]models.MenuItem{
			TokenRegister:   {Token: TokenRegister, Label: "Registro"},
			TokenDepartment: {Token: TokenDepartment},
		},
	}
}

func TestBreadCrumbs(t *testing.T) {
	nav := testDeps().BreadCrumbs("ent=reg&r=2023&sliv1=4&ent=dep", "")

	assert.Equal(t, []models.Breadcrumb{
		{URL: "/tol/?ent=home&r=2023", Label: "Home"},
		{URL: "/tol/?ent=reg&r=2023", Label: "Registro"},
		{URL: "/tol/?ent=dep&r=2023", Label: "dep"},
	}, nav)
}

func TestBreadCrumbsSkipHomeAndFallBackToLatest(t *testing.T) {
	nav := testDeps().BreadCrumbs("ent=home&r=1999", "Dettaglio")

	assert.Equal(t, []models.Breadcrumb{
		{URL: "/tol/?ent=home&r=2024", Label: "Home"},
		{URL: "Dettaglio", Label: "Dettaglio"},
	}, nav)
}

func TestBreadCrumbsWithoutSurveys(t *testing.T) {
	d := testDeps()
	d.Surveys = stubSurveys{}

	nav := d.BreadCrumbs("", "")
	assert.Equal(t, []models.Breadcrumb{{URL: "/tol/?ent=home&r=", Label: "Home"}}, nav)
}

func TestTrimBreadCrumbs(t *testing.T) {
	nav := []models.Breadcrumb{{Label: "Home"}, {Label: "Registro"}, {Label: "Strutture"}}

	assert.Len(t, TrimBreadCrumbs(nav, 1, ""), 2)
	assert.Equal(t, "Foglia", TrimBreadCrumbs(nav, 2, "Foglia")[1].Label)
	assert.Equal(t, []models.Breadcrumb{{URL: "x", Label: "x"}}, TrimBreadCrumbs(nav, 10, "x"))
}

func TestParameterParser(t *testing.T) {
	p := NewParameterParser(url.Values{
		"r":     {" 2023 "},
		"idT":   {"STU01T"},
		"bad":   {"1' OR '1'='1"},
		"n":     {"12"},
		"x":     {"dodici"},
		"sliv2": {"7"},
		"pliv1": {"A"},
	})

	assert.Equal(t, "2023", p.Code("r"))
	assert.Equal(t, "STU01T", p.Code(ParamProcessing))
	assert.Equal(t, "", p.Code("bad"))
	assert.Equal(t, "", p.Code("missing"))
	assert.Equal(t, 12, p.Int("n", -1))
	assert.Equal(t, -1, p.Int("x", -1))

	params := loadParams(p)
	assert.Equal(t, "2023", params["r"][ParamSurvey])
	assert.Equal(t, "7", params["struct"]["liv2"])
	assert.Equal(t, "", params["struct"]["liv4"])
	assert.Equal(t, "A", params["proat"]["liv1"])
}
