/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"html"
	"regexp"
	"strings"
	"time"
)

var (
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	blockPattern = regexp.MustCompile(`(?i)<\s*(br|/p|/li|/div)\s*/?\s*>`)
	blankPattern = regexp.MustCompile(`[ \t]+`)
)

// CleanHTML turns rich text coming from the editing forms into plain text:
// block tags become newlines, other tags and entities are removed.
func CleanHTML(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blockPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = blankPattern.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SplitItems splits a dash separated list, as used for the recipients of a
// processing activity, dropping empty entries.
func SplitItems(s string) []string {
	var items []string
	for _, part := range strings.Split(s, "-") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// MakeFilename builds the download name of an export.
func MakeFilename(label string, t time.Time) string {
	label = strings.Join(strings.Fields(label), "_")
	if label == "" {
		label = "registro"
	}
	return label + "_" + t.Format("2006-01-02_150405")
}
