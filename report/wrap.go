/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"strings"
	"unicode/utf8"
)

// Measurer returns the rendered width of a string in the current font.
type Measurer interface {
	Width(s string) float64
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(s string) float64

func (f MeasurerFunc) Width(s string) float64 {
	return f(s)
}

// Line is one wrapped line. Start and End are byte offsets into the
// wrapped text, so text[Start:End] == Text.
type Line struct {
	Text  string
	Start int
	End   int
}

// Wrap breaks text into lines no wider than width. Words are accumulated
// greedily; a word wider than the whole line is broken rune by rune. A
// line break consumes exactly one space, or one newline between
// paragraphs, and nothing when it falls inside a word.
func Wrap(m Measurer, text string, width float64) []Line {
	var lines []Line

	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			lines = append(lines, wrapParagraph(m, text, start, len(text), width)...)
			break
		}
		lines = append(lines, wrapParagraph(m, text, start, start+end, width)...)
		start += end + 1
	}

	if len(lines) == 1 && lines[0].Start == lines[0].End {
		return nil
	}
	return lines
}

func wrapParagraph(m Measurer, text string, from int, to int, width float64) []Line {
	if from == to {
		return []Line{{Start: from, End: from}}
	}

	var lines []Line
	emit := func(s, e int) {
		lines = append(lines, Line{Text: text[s:e], Start: s, End: e})
	}

	lineStart, lineEnd := from, from
	open := false
	pos := from
	for {
		wordEnd := strings.IndexByte(text[pos:to], ' ')
		if wordEnd < 0 {
			wordEnd = to
		} else {
			wordEnd += pos
		}

		switch {
		case m.Width(text[lineStart:wordEnd]) <= width:
			lineEnd = wordEnd
			open = true
		case open:
			// close the current line and retry the word on a fresh one
			emit(lineStart, lineEnd)
			lineStart, lineEnd = pos, pos
			open = false
			continue
		default:
			// a single word wider than the line
			lineStart = breakWord(m, text, pos, wordEnd, width, emit)
			lineEnd = wordEnd
			open = true
		}

		if wordEnd == to {
			break
		}
		pos = wordEnd + 1
	}

	if open {
		emit(lineStart, lineEnd)
	}
	return lines
}

// breakWord emits full-width pieces of text[from:to] and returns the start
// of the last, partial piece.
func breakWord(m Measurer, text string, from int, to int, width float64, emit func(s, e int)) int {
	start := from
	prev := from
	for i := from; i < to; {
		_, size := utf8.DecodeRuneInString(text[i:to])
		next := i + size
		if m.Width(text[start:next]) > width && prev > start {
			emit(start, prev)
			start = prev
		}
		prev = next
		i = next
	}
	return start
}

// Chunk takes from text the lines that fit in maxLines and whose end does
// not pass boundary runes. At least one line is always taken. It returns
// the taken lines and the remaining text; the text consumed by the lines
// plus the remainder equals text.
func Chunk(m Measurer, text string, width float64, boundary int, maxLines int) ([]Line, string) {
	lines := Wrap(m, text, width)
	if len(lines) == 0 {
		return nil, ""
	}

	taken := 0
	for taken < len(lines) {
		if taken > 0 {
			if taken >= maxLines {
				break
			}
			if boundary > 0 && utf8.RuneCountInString(text[:lines[taken].End]) > boundary {
				break
			}
		}
		taken++
	}

	if taken == len(lines) {
		return lines, ""
	}
	return lines[:taken], text[lines[taken].Start:]
}
