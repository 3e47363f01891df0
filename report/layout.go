/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import "github.com/pkg/errors"

// Layout holds the page geometry of the register document, in points.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	MarginX    float64
	Top        float64

	// vertical limits for lists on a first page and on continuation pages
	ListLimit         float64
	ContinuationLimit float64

	// a trailing block is appended to the current page only above this line
	TailThreshold float64

	// descriptions this long get their own page
	DescriptionLimit int

	// max runes of free text placed on one page
	TextBoundary int

	LineStep  float64
	TitleSize float64
	BodySize  float64
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth:         612,
		PageHeight:        792,
		MarginX:           80,
		Top:               110,
		ListLimit:         720,
		ContinuationLimit: 700,
		TailThreshold:     600,
		DescriptionLimit:  600,
		TextBoundary:      2000,
		LineStep:          14,
		TitleSize:         14,
		BodySize:          10,
	}
}

// TextWidth is the usable width between the margins.
func (l Layout) TextWidth() float64 {
	return l.PageWidth - 2*l.MarginX
}

// Cursor tracks the baseline of the last written line on a page.
type Cursor struct {
	Y     float64
	Limit float64
}

// Fits reports whether a block of height h can be written below the cursor.
func (c *Cursor) Fits(h float64) bool {
	return c.Y+h <= c.Limit
}

func (c *Cursor) Advance(h float64) {
	c.Y += h
}

// Lines is the number of lines of height step still available.
func (c *Cursor) Lines(step float64) int {
	if step <= 0 || c.Y >= c.Limit {
		return 0
	}
	return int((c.Limit - c.Y) / step)
}

func (l Layout) validate() error {
	switch {
	case l.LineStep <= 0:
		return errors.New("line step must be positive")
	case l.TextWidth() <= 0:
		return errors.New("margins leave no room for text")
	case l.Top+3*l.LineStep > l.ContinuationLimit || l.Top+3*l.LineStep > l.ListLimit:
		return errors.New("page limits leave no room below the header")
	}
	return nil
}
