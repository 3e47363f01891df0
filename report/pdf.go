/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package report

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

var ErrNoRecords = errors.New("no processing activities to print")

const PDFContentType = "application/pdf"

const (
	logoFile   = "logo1.png"
	checkFile  = "ico-check.png"
	fontFamily = "Helvetica"
	bullet     = "•"
)

type PageKind string

const (
	KindCover       PageKind = "cover"
	KindScope       PageKind = "scope"
	KindContacts    PageKind = "contacts"
	KindSection     PageKind = "section"
	KindProcessing  PageKind = "processing"
	KindLegalBases  PageKind = "legal-bases"
	KindCategories  PageKind = "categories"
	KindRecipients  PageKind = "recipients"
	KindRetention   PageKind = "retention"
	KindSecurity    PageKind = "security"
	KindDatabases   PageKind = "databases"
	KindExtraInfo   PageKind = "extra-info"
	KindDescription PageKind = "description"
	KindSignature   PageKind = "signature"
)

// Page describes one page of a rendered document.
type Page struct {
	Kind      PageKind `json:"kind"`
	Record    string   `json:"record,omitempty"`
	Continued bool     `json:"continued,omitempty"`
}

// Letterhead carries the fixed texts of the register document.
type Letterhead struct {
	Title      string
	Subtitle   string
	Version    string
	Scope      string
	Controller []string
	Contacts   []string
	Signatory  string
}

func DefaultLetterhead() Letterhead {
	return Letterhead{
		Title:    "Registro delle attività di trattamento",
		Subtitle: "(Regolamento UE 2016/679, art. 30)",
		Version:  "Registro delle attività di trattamento",
		Scope: "L'art. 30 del Regolamento UE n. 2016/679 (GDPR) prevede che le imprese od organizzazioni " +
			"con un numero uguale o superiore a 250 dipendenti adottino e tengano aggiornato un " +
			"Registro delle Attività di Trattamento.\n" +
			"Tale obbligo si applica alle pubbliche amministrazioni quando i trattamenti che esse " +
			"effettuano possono presentare un rischio per i diritti e le libertà dell'interessato, " +
			"non sono occasionali o includono categorie particolari di dati (GDPR, art. 9, par. 1) " +
			"o dati personali relativi a condanne penali.\n" +
			"L'Ateneo adotta pertanto il presente Registro per fornire ai terzi evidenza dell'analisi " +
			"dei trattamenti effettuati, motivando le misure intraprese sulla scorta dei rischi " +
			"gravanti su di essi, secondo il principio di responsabilizzazione (accountability).",
		Controller: []string{
			"Università degli Studi di Verona",
			"Via dell'Artigliere n. 8",
			"CAP 37129 - Verona",
			"E-mail: privacy@ateneo.univr.it",
		},
		Contacts: []string{
			"Il Responsabile della Protezione dei Dati (DPO) è raggiungibile ai recapiti del Titolare.",
		},
		Signatory: "Il Rettore",
	}
}

// PDF renders processing activities as the printable register. A PDF value
// renders one document at a time.
type PDF struct {
	Layout           Layout
	Letterhead       Letterhead
	ImagesDir        string
	ControllerSuffix string
	ProcessorSuffix  string
	Now              func() time.Time

	pages []Page
}

func NewPDF(imagesDir string, controllerSuffix string, processorSuffix string) *PDF {
	return &PDF{
		Layout:           DefaultLayout(),
		Letterhead:       DefaultLetterhead(),
		ImagesDir:        imagesDir,
		ControllerSuffix: controllerSuffix,
		ProcessorSuffix:  processorSuffix,
		Now:              time.Now,
	}
}

// Pages returns the manifest of the last rendered document.
func (r *PDF) Pages() []Page {
	return r.pages
}

// Render writes the document for records to w. A single record produces
// only its detail pages; more records produce the full register.
func (r *PDF) Render(w io.Writer, records []*models.ProcessingActivity) error {
	r.pages = nil
	if len(records) == 0 {
		return ErrNoRecords
	}
	if err := r.Layout.validate(); err != nil {
		return errors.Wrap(err, "invalid layout")
	}

	d, err := r.newDocument()
	if err != nil {
		return err
	}

	if len(records) == 1 {
		if err := d.detail(records[0]); err != nil {
			return err
		}
	} else {
		controllers, processors, err := r.split(records)
		if err != nil {
			return err
		}

		d.cover(r.now())
		d.scope()
		d.contacts()
		if len(controllers) > 0 {
			if err := d.group("3. Elenco dei trattamenti come Titolare", controllers); err != nil {
				return err
			}
		}
		if len(processors) > 0 {
			if err := d.group("4. Elenco dei trattamenti come Responsabile", processors); err != nil {
				return err
			}
		}
		d.signature()
	}

	if err := d.pdf.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	r.pages = d.pages
	return nil
}

func (r *PDF) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// split groups records by the role suffix of their code.
func (r *PDF) split(records []*models.ProcessingActivity) ([]*models.ProcessingActivity, []*models.ProcessingActivity, error) {
	var controllers, processors []*models.ProcessingActivity
	for _, p := range records {
		owner, err := p.HasSuffix(r.ControllerSuffix)
		if err != nil {
			return nil, nil, err
		}
		if owner {
			controllers = append(controllers, p)
			continue
		}
		processor, err := p.HasSuffix(r.ProcessorSuffix)
		if err != nil {
			return nil, nil, err
		}
		if processor {
			processors = append(processors, p)
			continue
		}
		code, _ := p.Code.Get()
		logs.Log("[WARNING][REPORT] Processing activity " + code + " has no role suffix, not printed")
	}
	return controllers, processors, nil
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	layout Layout
	head   Letterhead
	cur    Cursor
	pages  []Page
	record string
	logo   string
	check  string
}

func (r *PDF) newDocument() (*document, error) {
	l := r.Layout
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetMargins(l.MarginX, l.Top, l.MarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.Letterhead.Title, true)
	pdf.SetCreationDate(r.now())

	d := &document{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		layout: l,
		head:   r.Letterhead,
	}

	if r.ImagesDir != "" {
		var err error
		if d.logo, err = imagePath(r.ImagesDir, logoFile); err != nil {
			return nil, err
		}
		if d.check, err = imagePath(r.ImagesDir, checkFile); err != nil {
			return nil, err
		}
	}

	pdf.SetHeaderFunc(func() {
		if d.logo != "" {
			pdf.ImageOptions(d.logo, 10, 10, 209, 75, false, fpdf.ImageOptions{}, 0, "")
		}
	})
	pdf.SetFooterFunc(func() {
		if len(d.pages) == 0 || d.pages[len(d.pages)-1].Kind == KindCover {
			return
		}
		pdf.SetFont(fontFamily, "I", 8)
		s := "Pagina " + strconv.Itoa(pdf.PageNo())
		pdf.Text((l.PageWidth-pdf.GetStringWidth(s))/2, l.PageHeight-30, s)
	})

	return d, nil
}

func imagePath(dir string, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "image %s", name)
	}
	return path, nil
}

// Width measures s in the current font.
func (d *document) Width(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

func (d *document) step() float64 {
	return d.layout.LineStep
}

func (d *document) setFont(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

// addPage starts a new page. Continuation pages have a lower limit and
// open with a marker line.
func (d *document) addPage(kind PageKind, continued bool) {
	d.pdf.AddPage()
	limit := d.layout.ListLimit
	if continued {
		limit = d.layout.ContinuationLimit
	}
	d.cur = Cursor{Y: d.layout.Top, Limit: limit}
	d.pages = append(d.pages, Page{Kind: kind, Record: d.record, Continued: continued})

	if continued {
		d.setFont("I", d.layout.BodySize)
		d.cur.Advance(d.step())
		d.pdf.Text(d.layout.MarginX, d.cur.Y, d.tr("(segue)"))
	}
}

// ensure moves to a continuation page when h does not fit.
func (d *document) ensure(kind PageKind, h float64) {
	if !d.cur.Fits(h) {
		d.addPage(kind, true)
	}
}

// writeText prints as much of text as the page and the text boundary allow
// and returns the leftover.
func (d *document) writeText(text string, style string, indent float64) string {
	if text == "" {
		return ""
	}
	d.setFont(style, d.layout.BodySize)
	n := d.cur.Lines(d.step())
	if n == 0 {
		return text
	}

	lines, rest := Chunk(d, text, d.layout.TextWidth()-indent, d.layout.TextBoundary, n)
	for _, line := range lines {
		d.cur.Advance(d.step())
		d.pdf.Text(d.layout.MarginX+indent, d.cur.Y, d.tr(line.Text))
	}
	return rest
}

// flow prints text, adding continuation pages until nothing is left.
func (d *document) flow(kind PageKind, text string, style string, indent float64) {
	rest := d.writeText(text, style, indent)
	for rest != "" {
		d.addPage(kind, true)
		rest = d.writeText(rest, style, indent)
	}
}

func (d *document) title(s string) {
	d.setFont("B", d.layout.TitleSize)
	for _, line := range Wrap(d, s, d.layout.TextWidth()) {
		d.cur.Advance(d.layout.TitleSize + 4)
		d.pdf.Text(d.layout.MarginX, d.cur.Y, d.tr(line.Text))
	}
	d.cur.Advance(d.step() / 2)
}

// heading prints a bold label, keeping it on the page of the first line
// that follows it.
func (d *document) heading(kind PageKind, s string) {
	d.ensure(kind, 3*d.step())
	d.cur.Advance(d.step() / 2)
	d.flow(kind, s, "B", 0)
}

func (d *document) paragraph(kind PageKind, text string) {
	if text == "" {
		text = "Non specificato."
	}
	d.flow(kind, text, "", 0)
}

func (d *document) list(kind PageKind, items []string) {
	if len(items) == 0 {
		d.paragraph(kind, "")
		return
	}
	for _, item := range items {
		d.ensure(kind, d.step())
		d.flow(kind, bullet+" "+item, "", 10)
	}
}

func (d *document) checkbox(kind PageKind, f models.CategoryFlag) {
	d.ensure(kind, d.step())
	mark := "[  ]"
	if f.Set {
		mark = "[X]"
	}
	d.flow(kind, mark+" "+f.Label, "", 10)
	if f.Set && d.check != "" {
		d.pdf.ImageOptions(d.check, d.layout.MarginX-4, d.cur.Y-9, 10, 10, false, fpdf.ImageOptions{}, 0, "")
	}
}

func (d *document) centered(s string, style string, size float64, y float64) {
	d.setFont(style, size)
	s = d.tr(s)
	d.pdf.Text((d.layout.PageWidth-d.pdf.GetStringWidth(s))/2, y, s)
}

func (d *document) cover(now time.Time) {
	d.addPage(KindCover, false)
	d.centered(d.head.Title, "B", 24, 400)
	d.centered(d.head.Subtitle, "I", 16, 430)
	d.centered(d.head.Version+" - "+now.Format("02.01.2006"), "", 11, 700)
}

func (d *document) scope() {
	d.addPage(KindScope, false)
	d.title("1. Ambito di applicazione")
	d.paragraph(KindScope, d.head.Scope)
}

func (d *document) contacts() {
	d.addPage(KindContacts, false)
	d.title("2. Dati di Contatto")
	d.paragraph(KindContacts, "In merito al trattamento dei dati effettuato come Titolare e/o come "+
		"Responsabile, sono riportati i dati di contatto richiesti dal GDPR, art. 30 1a) e 2a).")
	d.heading(KindContacts, "Titolare del Trattamento")
	for _, line := range d.head.Controller {
		d.paragraph(KindContacts, line)
	}
	d.heading(KindContacts, "Responsabile della Protezione dei Dati (DPO)")
	for _, line := range d.head.Contacts {
		d.paragraph(KindContacts, line)
	}
}

// group prints a section index followed by the detail pages of its records.
func (d *document) group(title string, records []*models.ProcessingActivity) error {
	d.addPage(KindSection, false)
	d.title(title)

	items := make([]string, 0, len(records))
	for _, p := range records {
		code, err := p.Code.Get()
		if err != nil {
			return err
		}
		items = append(items, code+" - "+p.Name)
	}
	d.list(KindSection, items)

	for _, p := range records {
		if err := d.detail(p); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) signature() {
	d.addPage(KindSignature, false)
	x := d.layout.PageWidth - d.layout.MarginX - 200
	d.setFont("B", 11)
	d.pdf.Text(x+50, 260, d.tr(d.head.Signatory))
	d.pdf.Line(x, 320, x+200, 320)
}
