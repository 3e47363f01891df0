/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import "time"

// Item is the shape shared by the lookup records: id, name and a free text.
type Item struct {
	ID      int    `json:"id" structs:"id"`
	Name    string `json:"name" structs:"name"`
	Info    string `json:"info,omitempty" structs:"info"`
	Ordinal int    `json:"ordinal" structs:"ordinal"`
}

// Survey is one reporting cycle (rilevazione) of the register.
type Survey struct {
	ID      int    `json:"id" structs:"id"`
	Code    string `json:"code" structs:"code"`
	Name    string `json:"name" structs:"name"`
	Ordinal int    `json:"ordinal" structs:"ordinal"`
}

type Department struct {
	Item
	Prefix string `json:"prefix,omitempty" structs:"prefix"`
}

type Person struct {
	Item
	Surname string `json:"surname" structs:"surname"`
	Email   string `json:"email,omitempty" structs:"email"`
}

type Code struct {
	Item
	Code string `json:"code" structs:"code"`
}

type DataSubject struct {
	Item
}

const (
	LegalBasisCommon     = "C"
	LegalBasisParticular = "P"
)

type LegalBasis struct {
	Item
	Kind        string `json:"kind" structs:"kind"`
	Description string `json:"description,omitempty" structs:"description"`
}

// Label is the name followed by the kind of data the basis covers.
func (b LegalBasis) Label() string {
	switch b.Kind {
	case LegalBasisCommon:
		return b.Name + " (DATI COMUNI)"
	case LegalBasisParticular:
		return b.Name + " (DATI PARTICOLARI)"
	}
	return b.Name
}

// Database is a banca dati together with the archive that hosts it.
type Database struct {
	Item
	Description   string       `json:"description,omitempty" structs:"description"`
	Archive       string       `json:"archive" structs:"archive"`
	ArchiveInfo   string       `json:"archive_info,omitempty" structs:"archive_info"`
	ArchiveTypeID int          `json:"archive_type_id" structs:"archive_type_id"`
	Type          string       `json:"type" structs:"type"`
	LastModified  Modification `json:"last_modified" structs:"last_modified"`
}

// Modification records when and by whom a record was last changed.
type Modification struct {
	Date   *time.Time `json:"date,omitempty" structs:"date,omitnested"`
	Time   string     `json:"time,omitempty" structs:"time"`
	Author int        `json:"author,omitempty" structs:"author"`
}

type Activity struct {
	Code         string       `json:"code" structs:"code"`
	Name         string       `json:"name" structs:"name"`
	Description  string       `json:"description,omitempty" structs:"description"`
	Ordinal      int          `json:"ordinal" structs:"ordinal"`
	StartDate    *time.Time   `json:"start_date,omitempty" structs:"start_date,omitnested"`
	EndDate      *time.Time   `json:"end_date,omitempty" structs:"end_date,omitnested"`
	LastModified Modification `json:"last_modified" structs:"last_modified"`
}

// MenuItem is one configured action of the command table.
type MenuItem struct {
	ID        int    `json:"id" structs:"id"`
	Name      string `json:"name" structs:"name"`
	ClassName string `json:"class_name" structs:"class_name"`
	Token     string `json:"token" structs:"token"`
	Label     string `json:"label" structs:"label"`
	Page      string `json:"page" structs:"page"`
	Info      string `json:"info,omitempty" structs:"info"`
}

type Breadcrumb struct {
	URL   string `json:"url" structs:"url"`
	Label string `json:"label" structs:"label"`
}
