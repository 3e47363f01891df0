/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/nethesis/tol/models"
)

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestTableColumns(t *testing.T) {
	day := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	p := sampleRecord("STU01T")
	p.LastModified = models.Modification{Date: &day, Time: "10:15:00", Author: 7}

	header, rows, err := table([]*models.ProcessingActivity{p})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, []string{"code", "name", "description", "purpose"}, header[:4])
	for _, name := range []string{"categories.health", "extra.recipients", "last_modified.date", "legal_bases", "owners"} {
		assert.NotEqual(t, -1, column(header, name), "missing column %s", name)
	}

	row := rows[0]
	assert.Equal(t, "STU01T", row[column(header, "code")])
	assert.Equal(t, "SI", row[column(header, "categories.health")])
	assert.Equal(t, "NO", row[column(header, "categories.genetic")])
	assert.Equal(t, "30/06/2023", row[column(header, "last_modified.date")])
	assert.Equal(t, 7, row[column(header, "last_modified.author")])
	assert.Equal(t, "Immatricolazione; Esami", row[column(header, "activities")])
	assert.Equal(t, "Obbligo legale (DATI COMUNI)", row[column(header, "legal_bases")])
	assert.Equal(t, "Gestione delle carriere degli studenti iscritti.", row[column(header, "description")])
}

func TestTableNilDate(t *testing.T) {
	header, rows, err := table([]*models.ProcessingActivity{sampleRecord("STU01T")})
	require.NoError(t, err)
	assert.Equal(t, "", rows[0][column(header, "last_modified.date")])
}

func TestTableMissingCode(t *testing.T) {
	_, _, err := table([]*models.ProcessingActivity{models.NewProcessingActivity()})
	assert.ErrorIs(t, err, models.ErrAttributeNotSet)
}

func TestWriteCSV(t *testing.T) {
	p := sampleRecord("STU01T")
	p.Name = "Attività didattica “speciale”"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*models.ProcessingActivity{p, sampleRecord("PER02R")}))

	// à is a single byte in ISO-8859-1
	assert.Contains(t, buf.String(), "Attivit\xe0")

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "code", header[0])
	assert.Equal(t, "STU01T", records[1][0])
	assert.Equal(t, "PER02R", records[2][0])
	assert.Contains(t, records[1][column(header, "name")], "Attività didattica")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []*models.ProcessingActivity{sampleRecord("STU01T"), sampleRecord("PER02R")}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "code", rows[0][0])
	assert.Equal(t, "STU01T", rows[1][0])
	assert.Equal(t, "PER02R", rows[2][0])

	panes, err := f.GetPanes(sheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestWritersWithoutRecords(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, WriteCSV(&buf, nil), ErrNoRecords)
	assert.ErrorIs(t, WriteXLSX(&buf, []*models.ProcessingActivity{}), ErrNoRecords)
	assert.Zero(t, buf.Len())
}
