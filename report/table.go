/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/structs"
	"github.com/nqd/flat"
	"github.com/pkg/errors"

	"github.com/nethesis/tol/models"
)

const listSeparator = "; "

// leading columns, the others follow in name order
var firstColumns = []string{"code", "name", "description", "purpose"}

// table flattens records into a header and one row per record. Nested
// fields become dotted column names and collections are joined.
func table(records []*models.ProcessingActivity) ([]string, [][]interface{}, error) {
	if len(records) == 0 {
		return nil, nil, ErrNoRecords
	}

	flatRecords := make([]map[string]interface{}, 0, len(records))
	columns := map[string]bool{}

	for _, p := range records {
		code, err := p.Code.Get()
		if err != nil {
			return nil, nil, err
		}

		row, err := flat.Flatten(structs.Map(p), nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "flatten %s", code)
		}
		row["code"] = code
		row["legal_bases"] = joinLegalBases(p.LegalBases)
		row["activities"] = joinActivities(p.Activities)
		row["subjects"] = joinSubjects(p.Subjects)
		row["databases"] = joinDatabases(p.Databases)
		row["owners"] = strings.Join(departmentNames(p.Owners), listSeparator)
		row["responsible"] = strings.Join(departmentNames(p.Responsible), listSeparator)
		row["recipient_departments"] = strings.Join(departmentNames(p.Recipients), listSeparator)

		for k := range row {
			columns[k] = true
		}
		flatRecords = append(flatRecords, row)
	}

	header := make([]string, 0, len(columns))
	for _, c := range firstColumns {
		if columns[c] {
			header = append(header, c)
			delete(columns, c)
		}
	}
	rest := make([]string, 0, len(columns))
	for c := range columns {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	header = append(header, rest...)

	rows := make([][]interface{}, 0, len(flatRecords))
	for _, rec := range flatRecords {
		row := make([]interface{}, len(header))
		for i, c := range header {
			row[i] = cell(rec[c])
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// cell normalizes a flattened value for a spreadsheet cell.
func cell(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02/01/2006")
	case time.Time:
		return t.Format("02/01/2006")
	case bool:
		if t {
			return "SI"
		}
		return "NO"
	case string:
		return CleanHTML(t)
	case int, int64, float64:
		return t
	}
	return fmt.Sprint(v)
}

func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	}
	return fmt.Sprint(v)
}

func joinLegalBases(list []models.LegalBasis) string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Label())
	}
	return strings.Join(out, listSeparator)
}

func joinActivities(list []models.Activity) string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Name)
	}
	return strings.Join(out, listSeparator)
}

func joinSubjects(list []models.DataSubject) string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Name)
	}
	return strings.Join(out, listSeparator)
}

func joinDatabases(list []models.Database) string {
	out := make([]string, 0, len(list))
	for _, db := range list {
		out = append(out, db.Name)
	}
	return strings.Join(out, listSeparator)
}
