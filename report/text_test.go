/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML(t *testing.T) {
	cases := map[string]string{
		"":                                   "",
		"testo semplice":                     "testo semplice",
		"<p>Uno &amp; due</p><br/>tre":       "Uno & due\n\ntre",
		"<b>grassetto</b>   e&nbsp;spazio":   "grassetto e spazio",
		"riga\r\nriga":                       "riga\nriga",
		"<ul><li>a</li><li>b</li></ul>":      "a\nb",
		"&lt;script&gt; non è un tag &#233;": "<script> non è un tag é",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanHTML(in), "input %q", in)
	}
}

func TestSplitItems(t *testing.T) {
	assert.Equal(t, []string{"MIUR", "INPS"}, SplitItems("- MIUR - INPS -"))
	assert.Nil(t, SplitItems(" - "))
}

func TestMakeFilename(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "Registro_Trattamenti_2024-03-05_140709", MakeFilename("Registro Trattamenti", ts))
	assert.Equal(t, "registro_2024-03-05_140709", MakeFilename("  ", ts))
}
