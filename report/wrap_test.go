/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// one unit per rune
var runeWidth = MeasurerFunc(func(s string) float64 {
	return float64(utf8.RuneCountInString(s))
})

func assertLossless(t *testing.T, text string, lines []Line) {
	t.Helper()
	require.NotEmpty(t, lines)
	assert.Equal(t, 0, lines[0].Start)
	assert.Equal(t, len(text), lines[len(lines)-1].End)

	for i, line := range lines {
		assert.Equal(t, text[line.Start:line.End], line.Text)
		if i == 0 {
			continue
		}
		gap := text[lines[i-1].End:line.Start]
		assert.Contains(t, []string{"", " ", "\n"}, gap, "gap before line %d", i)
	}
}

func TestWrapLinesFitWidth(t *testing.T) {
	text := "Il trattamento dei dati personali avviene nel rispetto dei principi di liceità, correttezza e trasparenza."

	for _, width := range []float64{8, 15, 30, 200} {
		lines := Wrap(runeWidth, text, width)
		assertLossless(t, text, lines)
		for _, line := range lines {
			if utf8.RuneCountInString(line.Text) > 1 {
				assert.LessOrEqual(t, runeWidth.Width(line.Text), width, "line %q", line.Text)
			}
		}
	}
}

func TestWrapGreedy(t *testing.T) {
	lines := Wrap(runeWidth, "uno due tre quattro", 7)

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"uno due", "tre", "quattro"}, texts)
}

func TestWrapBreaksLongWord(t *testing.T) {
	text := "precipitevolissimevolmente ok"
	lines := Wrap(runeWidth, text, 10)

	assertLossless(t, text, lines)
	assert.Equal(t, "precipitev", lines[0].Text)
	assert.Equal(t, "olissimevo", lines[1].Text)
	assert.Equal(t, "lmente ok", lines[2].Text)
	assert.Equal(t, "", text[lines[0].End:lines[1].Start])
}

func TestWrapMultibyteWord(t *testing.T) {
	text := "àèìòùàèìòù"
	lines := Wrap(runeWidth, text, 3)

	assertLossless(t, text, lines)
	for _, l := range lines {
		assert.True(t, utf8.ValidString(l.Text))
		assert.LessOrEqual(t, utf8.RuneCountInString(l.Text), 3)
	}
}

func TestWrapParagraphs(t *testing.T) {
	text := "primo\n\nsecondo paragrafo"
	lines := Wrap(runeWidth, text, 100)

	assertLossless(t, text, lines)
	require.Len(t, lines, 3)
	assert.Equal(t, "", lines[1].Text)
	assert.Equal(t, "secondo paragrafo", lines[2].Text)
}

func TestWrapEmpty(t *testing.T) {
	assert.Nil(t, Wrap(runeWidth, "", 10))
}

func TestWrapRepeatedSpaces(t *testing.T) {
	text := "a  b"
	assertLossless(t, text, Wrap(runeWidth, text, 1))
}

func TestChunkContinuationIsLossless(t *testing.T) {
	text := strings.Repeat("misure di sicurezza tecniche ed organizzative adeguate al rischio. ", 80)

	var pages []string
	rest := text
	for rest != "" {
		lines, next := Chunk(runeWidth, rest, 40, 300, 5)
		require.NotEmpty(t, lines)
		require.Less(t, len(next), len(rest), "no progress")

		consumed := rest[:len(rest)-len(next)]
		assert.Equal(t, lines[0].Text, consumed[lines[0].Start:lines[0].End])
		assert.LessOrEqual(t, len(lines), 5)
		pages = append(pages, consumed)
		rest = next
	}

	assert.Equal(t, text, strings.Join(pages, ""))
	assert.Greater(t, len(pages), 1)
}

func TestChunkBoundary(t *testing.T) {
	text := strings.Repeat("abcd ", 40)

	lines, rest := Chunk(runeWidth, text, 9, 20, 100)
	require.NotEmpty(t, rest)
	last := lines[len(lines)-1]
	assert.LessOrEqual(t, utf8.RuneCountInString(text[:last.End]), 20)
}

func TestChunkTakesAtLeastOneLine(t *testing.T) {
	lines, rest := Chunk(runeWidth, "uno due tre", 3, 1, 0)
	require.Len(t, lines, 1)
	assert.Equal(t, "uno", lines[0].Text)
	assert.Equal(t, "due tre", rest)
}

func TestCursor(t *testing.T) {
	c := Cursor{Y: 110, Limit: 720}
	assert.True(t, c.Fits(14))
	assert.Equal(t, 43, c.Lines(14))

	c.Advance(600)
	assert.False(t, c.Fits(14))
	assert.Equal(t, 0, c.Lines(14))
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, DefaultLayout().validate())

	l := DefaultLayout()
	l.MarginX = 400
	assert.Error(t, l.validate())
}
