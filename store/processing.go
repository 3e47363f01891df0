/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/nethesis/tol/models"
)

// ErrNoUser is returned by the queries that need an authenticated user.
var ErrNoUser = errors.New("no authenticated user")

// StatusFilter selects processing activities by status. Status is matched
// against id_stato unless All is -1.
type StatusFilter struct {
	Status int
	All    int
}

var (
	AnyStatus  = StatusFilter{Status: models.StatusAny, All: models.StatusAny}
	ActiveOnly = StatusFilter{Status: models.StatusActive, All: models.StatusActive}
)

const (
	roleOwner       = "T"
	roleResponsible = "R"
	roleRecipient   = "D"
)

// GetProcessingActivities returns the active processing activities of a
// survey ordered by code.
func (w *Wrapper) GetProcessingActivities(ctx context.Context, survey *models.Survey) ([]*models.ProcessingActivity, error) {
	list := []*models.ProcessingActivity{}
	if survey == nil {
		return list, nil
	}

	q := w.sql.Select("T.codice", "T.nome", "T.descrizione", "T.ordinale").
		From("trattamento T").
		Join("rilevazione R ON T.id_rilevazione = R.id").
		Where(squirrel.Eq{"R.id": survey.ID}).
		Where(squirrel.Eq{"T.id_stato": models.StatusActive}).
		OrderBy("T.codice")

	err := w.withConn(ctx, "get processing activities", func(conn *sql.Conn) error {
		return query(ctx, conn, q, func(rows *sql.Rows) error {
			var code string
			var description sql.NullString
			p := models.NewProcessingActivity()
			if err := rows.Scan(&code, &p.Name, &description, &p.Ordinal); err != nil {
				return err
			}
			p.Code.Set(code)
			p.Description = description.String
			p.StatusID = models.StatusActive
			list = append(list, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func detailFilter(code string, status StatusFilter, survey *models.Survey) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"T.codice": code},
		squirrel.Eq{"R.id": survey.ID},
		squirrel.Or{squirrel.Eq{"T.id_stato": status.Status}, squirrel.Expr("-1 = ?", status.All)},
	}
}

// GetProcessingActivityDetail assembles one processing activity with its
// side records. It returns nil when the code does not match in the survey
// under the given status filter.
func (w *Wrapper) GetProcessingActivityDetail(ctx context.Context, user *models.SessionUser, code string, status StatusFilter, survey *models.Survey) (*models.ProcessingActivity, error) {
	const op = "get processing activity detail"

	if user == nil {
		return nil, newStorageError(op, ErrNoUser)
	}
	if survey == nil {
		return nil, nil
	}

	filter := detailFilter(code, status, survey)
	var p *models.ProcessingActivity

	err := w.withConn(ctx, op, func(conn *sql.Conn) error {
		var err error
		if p, err = w.fetchProcessing(ctx, conn, filter); err != nil || p == nil {
			return err
		}

		steps := []func(context.Context, *sql.Conn, squirrel.And, *models.ProcessingActivity) error{
			w.fetchExtraInfo,
			w.fetchActivities,
			w.fetchLegalBases,
			w.fetchSubjects,
			w.fetchDatabases,
			w.fetchDepartments,
		}
		for _, step := range steps {
			if err := step(ctx, conn, filter, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (w *Wrapper) fetchProcessing(ctx context.Context, conn *sql.Conn, filter squirrel.And) (*models.ProcessingActivity, error) {
	var found *models.ProcessingActivity

	q := w.sql.Select(
		"T.nome", "T.note", "T.ordinale", "T.codice", "T.descrizione",
		"T.finalita", "T.termini_ultimi", "T.extra_info",
		"T.dati_personali", "T.dati_sanitari", "T.dati_orientamentosex",
		"T.dati_etnia_relig_app", "T.dati_minore_eta", "T.dati_genetici",
		"T.dati_biometrici", "T.dati_giudiziari", "T.dati_ubicazione",
		"T.dati_pseudonimizzati", "T.dati_anonimizzati",
		"T.data_ultima_modifica", "T.ora_ultima_modifica", "T.id_usr_ultima_modifica",
		"T.id_tipo_trattamento", "T.id_stato",
	).
		From("trattamento T").
		Join("rilevazione R ON T.id_rilevazione = R.id").
		Where(filter)

	err := query(ctx, conn, q, func(rows *sql.Rows) error {
		var (
			code                                          string
			notes, description, purpose, retention, extra sql.NullString
			modDate                                       sql.NullTime
			modTime                                       interface{}
			author, typeID                                sql.NullInt64
		)
		p := models.NewProcessingActivity()
		c := &p.Categories
		err := rows.Scan(
			&p.Name, &notes, &p.Ordinal, &code, &description,
			&purpose, &retention, &extra,
			&c.Personal, &c.Health, &c.SexualOrient,
			&c.EthnicReligio, &c.Minors, &c.Genetic,
			&c.Biometric, &c.Judicial, &c.Location,
			&c.Pseudonymized, &c.Anonymized,
			&modDate, &modTime, &author,
			&typeID, &p.StatusID,
		)
		if err != nil {
			return err
		}
		p.Code.Set(code)
		p.Notes = notes.String
		p.Description = description.String
		p.Purpose = purpose.String
		p.Retention = retention.String
		p.ExtraText = extra.String
		p.TypeID = int(typeID.Int64)
		p.LastModified = models.Modification{
			Date:   datePtr(modDate),
			Time:   clock(modTime),
			Author: int(author.Int64),
		}
		found = p
		return nil
	})
	return found, err
}

func (w *Wrapper) fetchExtraInfo(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select("T.misure_sicurezza", "T.luoghi_custodia", "T.destinatari").
		From("trattamento T").
		Join("rilevazione R ON T.id_rilevazione = R.id").
		Where(filter)

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var measures, locations, recipients sql.NullString
		if err := rows.Scan(&measures, &locations, &recipients); err != nil {
			return err
		}
		p.Extra = models.ExtraInfo{
			SecurityMeasures: measures.String,
			CustodyLocations: locations.String,
			Recipients:       recipients.String,
		}
		return nil
	})
}

func (w *Wrapper) fetchActivities(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select(
		"A.nome", "A.ordinale", "A.codice", "A.descrizione", "A.datainizio", "A.datafine",
		"A.data_ultima_modifica", "A.ora_ultima_modifica", "A.id_usr_ultima_modifica",
	).
		From("attivita A").
		Join("attivita_trattamento AT ON AT.cod_attivita = A.codice AND AT.id_rilevazione = A.id_rilevazione").
		Join("trattamento T ON AT.cod_trattamento = T.codice AND T.id_rilevazione = AT.id_rilevazione").
		Join("rilevazione R ON A.id_rilevazione = R.id").
		Where(filter).
		OrderBy("A.ordinale", "A.codice")

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var (
			a                   models.Activity
			description         sql.NullString
			start, end, modDate sql.NullTime
			modTime             interface{}
			author              sql.NullInt64
		)
		if err := rows.Scan(&a.Name, &a.Ordinal, &a.Code, &description, &start, &end, &modDate, &modTime, &author); err != nil {
			return err
		}
		a.Description = description.String
		a.StartDate = datePtr(start)
		a.EndDate = datePtr(end)
		a.LastModified = models.Modification{Date: datePtr(modDate), Time: clock(modTime), Author: int(author.Int64)}
		p.Activities = append(p.Activities, a)
		return nil
	})
}

func (w *Wrapper) fetchLegalBases(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select("BG.id", "BG.nome", "BG.descrizione", "BG.ordinale", "BG.tipo_base", "BGT.note").
		From("base_giuridica BG").
		Join("base_giuridica_trattamento BGT ON BGT.id_base_giuridica = BG.id").
		Join("trattamento T ON BGT.cod_trattamento = T.codice AND T.id_rilevazione = BGT.id_rilevazione").
		Join("rilevazione R ON BG.id_rilevazione = R.id").
		Where(filter).
		OrderBy("BG.ordinale")

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var b models.LegalBasis
		var description, notes sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &description, &b.Ordinal, &b.Kind, &notes); err != nil {
			return err
		}
		b.Description = description.String
		b.Info = notes.String
		p.LegalBases = append(p.LegalBases, b)
		return nil
	})
}

func (w *Wrapper) fetchSubjects(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select("I.id", "I.nome", "I.descrizione", "I.ordinale").
		From("interessati I").
		Join("interessati_trattamento IT ON IT.id_interessati = I.id").
		Join("trattamento T ON IT.cod_trattamento = T.codice AND T.id_rilevazione = IT.id_rilevazione").
		Join("rilevazione R ON IT.id_rilevazione = R.id").
		Where(filter).
		OrderBy("I.nome")

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var s models.DataSubject
		var description sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.Ordinal); err != nil {
			return err
		}
		s.Info = description.String
		p.Subjects = append(p.Subjects, s)
		return nil
	})
}

func (w *Wrapper) fetchDatabases(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select(
		"BD.id", "BD.nome", "BD.descrizione", "BD.ordinale",
		"DB.nome", "DB.descrizione", "DB.id_tipo_archivio", "TD.nome",
		"BD.data_ultima_modifica", "BD.ora_ultima_modifica", "BD.id_usr_ultima_modifica",
	).
		From("banca_dati BD").
		Join("archivio DB ON BD.id_archivio = DB.id").
		Join("tipo_archivio TD ON DB.id_tipo_archivio = TD.id").
		Join("banca_dati_trattamento BDT ON BDT.id_banca_dati = BD.id").
		Join("trattamento T ON BDT.cod_trattamento = T.codice AND T.id_rilevazione = BDT.id_rilevazione").
		Join("rilevazione R ON BD.id_rilevazione = R.id").
		Where(filter).
		OrderBy("BD.ordinale")

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var (
			d                        models.Database
			description, archiveInfo sql.NullString
			modDate                  sql.NullTime
			modTime                  interface{}
			author                   sql.NullInt64
		)
		err := rows.Scan(
			&d.ID, &d.Name, &description, &d.Ordinal,
			&d.Archive, &archiveInfo, &d.ArchiveTypeID, &d.Type,
			&modDate, &modTime, &author,
		)
		if err != nil {
			return err
		}
		d.Description = description.String
		d.ArchiveInfo = archiveInfo.String
		d.LastModified = models.Modification{Date: datePtr(modDate), Time: clock(modTime), Author: int(author.Int64)}
		p.Databases = append(p.Databases, d)
		return nil
	})
}

func (w *Wrapper) fetchDepartments(ctx context.Context, conn *sql.Conn, filter squirrel.And, p *models.ProcessingActivity) error {
	q := w.sql.Select("S.id", "S.nome", "S.prefisso", "S.informativa", "S.ordinale", "ST.ruolo").
		From("struttura S").
		Join("struttura_trattamento ST ON ST.id_struttura = S.id").
		Join("trattamento T ON ST.cod_trattamento = T.codice AND T.id_rilevazione = ST.id_rilevazione").
		Join("rilevazione R ON ST.id_rilevazione = R.id").
		Where(filter).
		OrderBy("S.ordinale", "S.nome")

	return query(ctx, conn, q, func(rows *sql.Rows) error {
		var d models.Department
		var prefix, info sql.NullString
		var role string
		if err := rows.Scan(&d.ID, &d.Name, &prefix, &info, &d.Ordinal, &role); err != nil {
			return err
		}
		d.Prefix = prefix.String
		d.Info = info.String

		switch role {
		case roleOwner:
			p.Owners = append(p.Owners, d)
		case roleResponsible:
			p.Responsible = append(p.Responsible, d)
		case roleRecipient:
			p.Recipients = append(p.Recipients, d)
		}
		return nil
	})
}
