/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/nethesis/tol/models"
)

func (w *Wrapper) surveyQuery(id int, all int) squirrel.SelectBuilder {
	return w.sql.Select("R.id", "R.codice", "R.nome", "R.ordinale").
		From("rilevazione R").
		Where(squirrel.Or{squirrel.Eq{"R.id": id}, squirrel.Expr("-1 = ?", all)}).
		Where(squirrel.Eq{"R.chiusa": true}).
		OrderBy("R.data_rilevazione DESC")
}

// GetSurveys returns the closed surveys, most recent first. Passing -1 as
// all ignores the id filter.
func (w *Wrapper) GetSurveys(ctx context.Context, id int, all int) ([]*models.Survey, error) {
	return w.surveys(ctx, "get surveys", w.surveyQuery(id, all))
}

// GetSurvey returns the survey with the given id, or the most recent closed
// survey when both arguments are -1. It returns nil when nothing matches.
func (w *Wrapper) GetSurvey(ctx context.Context, id int, all int) (*models.Survey, error) {
	surveys, err := w.surveys(ctx, "get survey", w.surveyQuery(id, all).Limit(1))
	if err != nil || len(surveys) == 0 {
		return nil, err
	}
	return surveys[0], nil
}

func (w *Wrapper) surveys(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Survey, error) {
	surveys := []*models.Survey{}

	err := w.withConn(ctx, op, func(conn *sql.Conn) error {
		return query(ctx, conn, q, func(rows *sql.Rows) error {
			var s models.Survey
			if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Ordinal); err != nil {
				return err
			}
			surveys = append(surveys, &s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

// LookupCommands returns the configured actions ordered by id.
func (w *Wrapper) LookupCommands(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}

	q := w.sql.Select("id", "nome", "token", "labelweb", "jsp", "informativa").
		From("command").
		OrderBy("id")

	err := w.withConn(ctx, "lookup commands", func(conn *sql.Conn) error {
		return query(ctx, conn, q, func(rows *sql.Rows) error {
			var item models.MenuItem
			var label, info sql.NullString
			if err := rows.Scan(&item.ID, &item.Name, &item.Token, &label, &item.Page, &info); err != nil {
				return err
			}
			item.ClassName = item.Name
			item.Label = label.String
			item.Info = info.String
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetDepartments returns the departments taking part in a survey.
func (w *Wrapper) GetDepartments(ctx context.Context, survey *models.Survey) ([]*models.Department, error) {
	departments := []*models.Department{}
	if survey == nil {
		return departments, nil
	}

	q := w.sql.Select("S.id", "S.nome", "S.prefisso", "S.informativa", "S.ordinale").
		From("struttura S").
		Where(squirrel.Eq{"S.id_rilevazione": survey.ID}).
		OrderBy("S.ordinale", "S.nome")

	err := w.withConn(ctx, "get departments", func(conn *sql.Conn) error {
		return query(ctx, conn, q, func(rows *sql.Rows) error {
			var d models.Department
			var prefix, info sql.NullString
			if err := rows.Scan(&d.ID, &d.Name, &prefix, &info, &d.Ordinal); err != nil {
				return err
			}
			d.Prefix = prefix.String
			d.Info = info.String
			departments = append(departments, &d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return departments, nil
}
