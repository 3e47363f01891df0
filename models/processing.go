/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import "strings"

const (
	StatusActive   = 1
	StatusInactive = 2
	// StatusAny disables the status filter when passed on both sides.
	StatusAny = -1
)

// ExtraInfo is the free text attached to a processing activity.
type ExtraInfo struct {
	SecurityMeasures string `json:"security_measures" structs:"security_measures"`
	CustodyLocations string `json:"custody_locations" structs:"custody_locations"`
	Recipients       string `json:"recipients" structs:"recipients"`
}

// DataCategories flags the special categories of personal data involved.
type DataCategories struct {
	Personal      bool `json:"personal" structs:"personal"`
	Health        bool `json:"health" structs:"health"`
	SexualOrient  bool `json:"sexual_orientation" structs:"sexual_orientation"`
	EthnicReligio bool `json:"ethnic_religious" structs:"ethnic_religious"`
	Minors        bool `json:"minors" structs:"minors"`
	Genetic       bool `json:"genetic" structs:"genetic"`
	Biometric     bool `json:"biometric" structs:"biometric"`
	Judicial      bool `json:"judicial" structs:"judicial"`
	Location      bool `json:"location" structs:"location"`
	Pseudonymized bool `json:"pseudonymized" structs:"pseudonymized"`
	Anonymized    bool `json:"anonymized" structs:"anonymized"`
}

// CategoryFlag pairs a printable label with its value.
type CategoryFlag struct {
	Label string
	Set   bool
}

// Flags lists the categories in print order.
func (d DataCategories) Flags() []CategoryFlag {
	return []CategoryFlag{
		{"Dati comuni", d.Personal},
		{"Dati sanitari", d.Health},
		{"Dati relativi all'orientamento sessuale", d.SexualOrient},
		{"Dati relativi ad etnia, religione o appartenenza associativa", d.EthnicReligio},
		{"Dati relativi a soggetti minorenni", d.Minors},
		{"Dati relativi ad aspetti genetici", d.Genetic},
		{"Dati biometrici", d.Biometric},
		{"Dati giudiziari", d.Judicial},
		{"Dati relativi all'ubicazione dei soggetti", d.Location},
		{"Dati pseudonimizzati", d.Pseudonymized},
		{"Dati anonimizzati", d.Anonymized},
	}
}

// Count returns how many categories are flagged.
func (d DataCategories) Count() int {
	n := 0
	for _, f := range d.Flags() {
		if f.Set {
			n++
		}
	}
	return n
}

// ProcessingActivity is one entry (trattamento) of the register.
type ProcessingActivity struct {
	Code         Required[string] `json:"code" structs:"-"`
	Name         string           `json:"name" structs:"name"`
	Notes        string           `json:"notes,omitempty" structs:"notes"`
	Ordinal      int              `json:"ordinal" structs:"ordinal"`
	Description  string           `json:"description,omitempty" structs:"description"`
	Purpose      string           `json:"purpose,omitempty" structs:"purpose"`
	Retention    string           `json:"retention,omitempty" structs:"retention"`
	ExtraText    string           `json:"extra_text,omitempty" structs:"extra_text"`
	Categories   DataCategories   `json:"categories" structs:"categories"`
	LastModified Modification     `json:"last_modified" structs:"last_modified"`
	TypeID       int              `json:"type_id" structs:"type_id"`
	StatusID     int              `json:"status_id" structs:"status_id"`
	Extra        ExtraInfo        `json:"extra" structs:"extra"`

	LegalBases  []LegalBasis  `json:"legal_bases,omitempty" structs:"-"`
	Activities  []Activity    `json:"activities,omitempty" structs:"-"`
	Subjects    []DataSubject `json:"subjects,omitempty" structs:"-"`
	Recipients  []Department  `json:"recipients,omitempty" structs:"-"`
	Databases   []Database    `json:"databases,omitempty" structs:"-"`
	Owners      []Department  `json:"owners,omitempty" structs:"-"`
	Responsible []Department  `json:"responsible,omitempty" structs:"-"`
}

// NewProcessingActivity returns a record whose code is still unset.
func NewProcessingActivity() *ProcessingActivity {
	return &ProcessingActivity{Code: NewRequired[string]("codice")}
}

// HasSuffix reports whether the code ends with the given role suffix.
func (p *ProcessingActivity) HasSuffix(suffix string) (bool, error) {
	code, err := p.Code.Get()
	if err != nil {
		return false, err
	}
	return strings.HasSuffix(strings.ToUpper(code), strings.ToUpper(suffix)), nil
}
