/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nethesis/tol/models"
)

// detail prints the sub-report of one processing activity.
func (d *document) detail(p *models.ProcessingActivity) error {
	code, err := p.Code.Get()
	if err != nil {
		return err
	}
	d.record = code
	defer func() { d.record = "" }()

	description := CleanHTML(p.Description)
	long := utf8.RuneCountInString(description) >= d.layout.DescriptionLimit

	d.processingPage(p, code, description, long)
	d.legalBasesPage(p, code)
	d.categoriesPage(p, code)
	d.recipientsPage(p, code)
	d.securityPage(p, code)
	d.databasesPage(p, code)

	if long {
		d.start(KindDescription, code, p)
		d.heading(KindDescription, "Descrizione sintetica del trattamento")
		d.paragraph(KindDescription, description)
	}
	return nil
}

// start opens a detail page with the record header.
func (d *document) start(kind PageKind, code string, p *models.ProcessingActivity) {
	d.addPage(kind, false)
	d.title("Trattamento " + code)
	d.flow(kind, p.Name, "B", 0)
	d.cur.Advance(d.step() / 2)
}

func (d *document) processingPage(p *models.ProcessingActivity, code string, description string, long bool) {
	d.start(KindProcessing, code, p)

	if len(p.Owners) > 0 {
		d.heading(KindProcessing, "Struttura titolare:")
		d.list(KindProcessing, departmentNames(p.Owners))
	}
	if len(p.Responsible) > 0 {
		d.heading(KindProcessing, "Struttura responsabile:")
		d.list(KindProcessing, departmentNames(p.Responsible))
	}
	if !long {
		d.heading(KindProcessing, "Descrizione sintetica del trattamento")
		d.paragraph(KindProcessing, description)
	}

	d.heading(KindProcessing, "Attività di trattamento ("+strconv.Itoa(len(p.Activities))+")")
	items := make([]string, 0, len(p.Activities))
	for _, a := range p.Activities {
		items = append(items, a.Name)
	}
	d.list(KindProcessing, items)
}

func (d *document) legalBasesPage(p *models.ProcessingActivity, code string) {
	d.start(KindLegalBases, code, p)

	d.heading(KindLegalBases, "Descrizione delle finalità perseguite")
	d.paragraph(KindLegalBases, CleanHTML(p.Purpose))

	d.heading(KindLegalBases, "Basi giuridiche ("+strconv.Itoa(len(p.LegalBases))+")")
	items := make([]string, 0, len(p.LegalBases))
	for _, b := range p.LegalBases {
		item := b.Label()
		if note := CleanHTML(b.Description); note != "" {
			item += ": " + note
		}
		items = append(items, item)
	}
	d.list(KindLegalBases, items)
}

func (d *document) categoriesPage(p *models.ProcessingActivity, code string) {
	d.start(KindCategories, code, p)

	d.heading(KindCategories, "Descrizione delle categorie di interessati ("+strconv.Itoa(len(p.Subjects))+")")
	items := make([]string, 0, len(p.Subjects))
	for _, s := range p.Subjects {
		items = append(items, s.Name)
	}
	d.list(KindCategories, items)

	d.heading(KindCategories, "Descrizione delle categorie di dati personali ("+strconv.Itoa(p.Categories.Count())+")")
	for _, f := range p.Categories.Flags() {
		d.checkbox(KindCategories, f)
	}
}

func (d *document) recipientsPage(p *models.ProcessingActivity, code string) {
	d.start(KindRecipients, code, p)

	d.heading(KindRecipients, "Categorie di destinatari a cui i dati vengono comunicati:")
	d.list(KindRecipients, SplitItems(CleanHTML(p.Extra.Recipients)))
	if len(p.Recipients) > 0 {
		d.heading(KindRecipients, "Strutture destinatarie:")
		d.list(KindRecipients, departmentNames(p.Recipients))
	}

	kind := KindRecipients
	if d.cur.Y >= d.layout.TailThreshold {
		kind = KindRetention
		d.start(kind, code, p)
	}
	d.heading(kind, "Termini ultimi previsti per la cancellazione:")
	d.paragraph(kind, CleanHTML(p.Retention))
}

func (d *document) securityPage(p *models.ProcessingActivity, code string) {
	d.start(KindSecurity, code, p)
	d.heading(KindSecurity, "Descrizione generale delle misure di sicurezza tecniche ed organizzative:")
	d.paragraph(KindSecurity, CleanHTML(p.Extra.SecurityMeasures))
}

func (d *document) databasesPage(p *models.ProcessingActivity, code string) {
	d.start(KindDatabases, code, p)

	d.heading(KindDatabases, "Luoghi di custodia dei dati:")
	d.paragraph(KindDatabases, CleanHTML(p.Extra.CustodyLocations))

	d.heading(KindDatabases, "Banche dati ("+strconv.Itoa(len(p.Databases))+")")
	items := make([]string, 0, len(p.Databases))
	for _, db := range p.Databases {
		items = append(items, databaseLabel(db))
	}
	d.list(KindDatabases, items)

	extra := CleanHTML(p.ExtraText)
	if extra == "" {
		return
	}
	kind := KindDatabases
	if d.cur.Y >= d.layout.TailThreshold {
		kind = KindExtraInfo
		d.start(kind, code, p)
	}
	d.heading(kind, "Ulteriori informazioni:")
	d.paragraph(kind, extra)
}

func departmentNames(list []models.Department) []string {
	names := make([]string, 0, len(list))
	for _, dep := range list {
		names = append(names, dep.Name)
	}
	return names
}

func databaseLabel(db models.Database) string {
	parts := []string{db.Name}
	if db.Archive != "" {
		parts = append(parts, "archivio: "+db.Archive)
	}
	if db.Type != "" {
		parts = append(parts, "tipo: "+db.Type)
	}
	label := strings.Join(parts, ", ")
	if desc := CleanHTML(db.Description); desc != "" {
		label += " - " + desc
	}
	return label
}
