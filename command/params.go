/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package command

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Navigation parameter names.
const (
	ParamSurvey     = "r"
	ParamSection    = "p"
	ParamProcessing = "idT"
	ParamDate       = "d"
	ParamTime       = "t"
)

var (
	structLevels = []string{"sliv1", "sliv2", "sliv3", "sliv4"}
	procLevels   = []string{"pliv1", "pliv2", "pliv3"}
	codePattern  = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// ParameterParser reads typed values out of the query.
type ParameterParser struct {
	values url.Values
}

func NewParameterParser(values url.Values) ParameterParser {
	return ParameterParser{values: values}
}

// String returns the trimmed value, empty when missing.
func (p ParameterParser) String(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

// Int returns the value as an integer, def when missing or malformed.
func (p ParameterParser) Int(name string, def int) int {
	v, err := strconv.Atoi(p.String(name))
	if err != nil {
		return def
	}
	return v
}

// Code returns a business code. Values with characters outside
// letters, digits, dash and underscore are treated as missing.
func (p ParameterParser) Code(name string) string {
	v := p.String(name)
	if !codePattern.MatchString(v) {
		return ""
	}
	return v
}

// loadParams groups the navigation parameters for the views.
func loadParams(p ParameterParser) map[string]map[string]string {
	survey := map[string]string{
		ParamSurvey: p.Code(ParamSurvey),
		ParamDate:   p.String(ParamDate),
		ParamTime:   p.String(ParamTime),
	}

	structure := map[string]string{}
	for i, name := range structLevels {
		structure["liv"+strconv.Itoa(i+1)] = p.String(name)
	}

	process := map[string]string{}
	for i, name := range procLevels {
		process["liv"+strconv.Itoa(i+1)] = p.String(name)
	}

	return map[string]map[string]string{
		"r":      survey,
		"struct": structure,
		"proat":  process,
	}
}
