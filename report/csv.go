/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/nethesis/tol/models"
)

const CSVContentType = "text/x-comma-separated-values; charset=ISO-8859-1"

// WriteCSV writes records as semicolon separated values encoded in
// ISO-8859-1. Characters outside the charset are replaced.
func WriteCSV(w io.Writer, records []*models.ProcessingActivity) error {
	header, rows, err := table(records)
	if err != nil {
		return err
	}

	enc := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
	out := csv.NewWriter(enc)
	out.Comma = ';'

	if err := out.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = text(v)
		}
		if err := out.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return errors.Wrap(enc.Close(), "write csv")
}
