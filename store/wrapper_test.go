/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethesis/tol/db"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

func init() {
	logs.Init("store-tests")
}

func newMockWrapper(t *testing.T, dialect db.Dialect) (*Wrapper, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	w, err := NewWrapper(pool, dialect)
	require.NoError(t, err)
	return w, mock
}

func TestNewWrapperWithoutPool(t *testing.T) {
	w, err := NewWrapper(nil, db.Postgres)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNoDatabase)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "new wrapper", se.Op)
}

func TestGetSurveys(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT R.id, R.codice, R.nome, R.ordinale FROM rilevazione R WHERE (R.id = $1 OR -1 = $2) AND R.chiusa = $3 ORDER BY R.data_rilevazione DESC",
	)).
		WithArgs(-1, -1, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "codice", "nome", "ordinale"}).
			AddRow(2, "2024", "Rilevazione 2024", 2).
			AddRow(1, "2023", "Rilevazione 2023", 1))

	surveys, err := w.GetSurveys(context.Background(), models.StatusAny, models.StatusAny)
	require.NoError(t, err)
	require.Len(t, surveys, 2)
	assert.Equal(t, "2024", surveys[0].Code)
	assert.Equal(t, 1, surveys[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSurveyNoMatch(t *testing.T) {
	w, mock := newMockWrapper(t, db.MySQL)

	mock.ExpectQuery(`FROM rilevazione R WHERE \(R\.id = \? OR -1 = \?\) AND R\.chiusa = \? ORDER BY R\.data_rilevazione DESC LIMIT 1`).
		WithArgs(99, 0, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "codice", "nome", "ordinale"}))

	s, err := w.GetSurvey(context.Background(), 99, 0)
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSurveyLatest(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT R.id, R.codice, R.nome, R.ordinale FROM rilevazione R WHERE (R.id = $1 OR -1 = $2) AND R.chiusa = $3 ORDER BY R.data_rilevazione DESC LIMIT 1",
	)).
		WithArgs(-1, -1, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "codice", "nome", "ordinale"}).
			AddRow(2, "2024", "Rilevazione 2024", 2).
			AddRow(1, "2023", "Rilevazione 2023", 1))

	s, err := w.GetSurvey(context.Background(), models.StatusAny, models.StatusAny)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.ID)
	assert.Equal(t, "2024", s.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSurveyByID(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM rilevazione R WHERE (R.id = $1 OR -1 = $2) AND R.chiusa = $3 ORDER BY R.data_rilevazione DESC LIMIT 1",
	)).
		WithArgs(7, 7, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "codice", "nome", "ordinale"}).
			AddRow(7, "2021", "Rilevazione 2021", 5))

	s, err := w.GetSurvey(context.Background(), 7, 7)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 7, s.ID)
	assert.Equal(t, "2021", s.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureIsStorageError(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery("FROM command").WillReturnError(errors.New("relation does not exist"))

	items, err := w.LookupCommands(context.Background())
	assert.Nil(t, items)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "lookup commands", se.Op)
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedPool(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, pool.Close())

	w, err := NewWrapper(pool, db.Postgres)
	require.NoError(t, err)

	_, err = w.GetSurveys(context.Background(), models.StatusAny, models.StatusAny)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "acquire connection")
}

func TestLookupCommands(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nome, token, labelweb, jsp, informativa FROM command ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "token", "labelweb", "jsp", "informativa"}).
			AddRow(1, "HomePageCommand", "home", "Home", "/jsp/tol/home.jsp", nil).
			AddRow(2, "ReportCommand", "reg", nil, "/jsp/tol/reg.jsp", "Registro"))

	items, err := w.LookupCommands(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "home", items[0].Token)
	assert.Equal(t, "HomePageCommand", items[0].ClassName)
	assert.Equal(t, "", items[1].Label)
	assert.Equal(t, "Registro", items[1].Info)
}

func TestGetDepartments(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	departments, err := w.GetDepartments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, departments)

	mock.ExpectQuery(regexp.QuoteMeta("FROM struttura S WHERE S.id_rilevazione = $1 ORDER BY S.ordinale, S.nome")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "prefisso", "informativa", "ordinale"}).
			AddRow(3, "Dipartimento di Informatica", "DI", nil, 1))

	departments, err = w.GetDepartments(context.Background(), &models.Survey{ID: 7})
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "DI", departments[0].Prefix)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProcessingActivities(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trattamento T JOIN rilevazione R ON T.id_rilevazione = R.id WHERE R.id = $1 AND T.id_stato = $2 ORDER BY T.codice")).
		WithArgs(7, models.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"codice", "nome", "descrizione", "ordinale"}).
			AddRow("STU01T", "Carriere studenti", nil, 1))

	list, err := w.GetProcessingActivities(context.Background(), &models.Survey{ID: 7})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "STU01T", list[0].Code.MustGet())
	assert.Equal(t, models.StatusActive, list[0].StatusID)
}

func detailColumns() []string {
	return []string{
		"nome", "note", "ordinale", "codice", "descrizione",
		"finalita", "termini_ultimi", "extra_info",
		"dati_personali", "dati_sanitari", "dati_orientamentosex",
		"dati_etnia_relig_app", "dati_minore_eta", "dati_genetici",
		"dati_biometrici", "dati_giudiziari", "dati_ubicazione",
		"dati_pseudonimizzati", "dati_anonimizzati",
		"data_ultima_modifica", "ora_ultima_modifica", "id_usr_ultima_modifica",
		"id_tipo_trattamento", "id_stato",
	}
}

func TestGetProcessingActivityDetail(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)
	modified := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM trattamento T JOIN rilevazione R ON T.id_rilevazione = R.id WHERE (T.codice = $1 AND R.id = $2 AND (T.id_stato = $3 OR -1 = $4))",
	)).
		WithArgs("STU01T", 7, models.StatusInactive, models.StatusInactive).
		WillReturnRows(sqlmock.NewRows(detailColumns()).AddRow(
			"Carriere studenti", nil, 1, "STU01T", "Gestione delle carriere",
			"Didattica", "Illimitato", nil,
			true, true, false,
			false, false, false,
			false, false, false,
			false, false,
			modified, []byte("10:30:00"), 4,
			nil, models.StatusInactive,
		))
	mock.ExpectQuery("SELECT T.misure_sicurezza, T.luoghi_custodia, T.destinatari FROM trattamento T").
		WillReturnRows(sqlmock.NewRows([]string{"misure_sicurezza", "luoghi_custodia", "destinatari"}).
			AddRow("Cifratura", "Server farm", nil))
	mock.ExpectQuery("FROM attivita A").
		WillReturnRows(sqlmock.NewRows([]string{"nome", "ordinale", "codice", "descrizione", "datainizio", "datafine", "data", "ora", "autore"}).
			AddRow("Immatricolazione", 1, "A01", nil, nil, nil, nil, nil, nil))
	mock.ExpectQuery("FROM base_giuridica BG").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "descrizione", "ordinale", "tipo_base", "note"}).
			AddRow(1, "Art. 6.1.e", nil, 1, models.LegalBasisCommon, nil))
	mock.ExpectQuery("FROM interessati I").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "descrizione", "ordinale"}).
			AddRow(1, "Studenti", "Iscritti", 1))
	mock.ExpectQuery("FROM banca_dati BD JOIN archivio DB").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "descrizione", "ordinale", "archivio", "info", "id_tipo_archivio", "tipo", "data", "ora", "autore"}).
			AddRow(5, "ESSE3", nil, 1, "Oracle", nil, 2, "Elettronico", nil, nil, nil))
	mock.ExpectQuery("FROM struttura S JOIN struttura_trattamento ST").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "prefisso", "informativa", "ordinale", "ruolo"}).
			AddRow(1, "Area Didattica", nil, nil, 1, "T").
			AddRow(2, "Fornitore", nil, nil, 2, "R").
			AddRow(3, "Ministero", nil, nil, 3, "D").
			AddRow(4, "Altro", nil, nil, 4, "X"))

	user := &models.SessionUser{Login: "mrossi"}
	status := StatusFilter{Status: models.StatusInactive, All: models.StatusInactive}
	p, err := w.GetProcessingActivityDetail(context.Background(), user, "STU01T", status, &models.Survey{ID: 7})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "STU01T", p.Code.MustGet())
	assert.Equal(t, "Didattica", p.Purpose)
	assert.True(t, p.Categories.Health)
	assert.Equal(t, 2, p.Categories.Count())
	assert.Equal(t, "10:30:00", p.LastModified.Time)
	require.NotNil(t, p.LastModified.Date)
	assert.Equal(t, 4, p.LastModified.Author)
	assert.Equal(t, "Cifratura", p.Extra.SecurityMeasures)
	assert.Len(t, p.Activities, 1)
	assert.Equal(t, "Art. 6.1.e (DATI COMUNI)", p.LegalBases[0].Label())
	assert.Equal(t, "Iscritti", p.Subjects[0].Info)
	assert.Equal(t, "Oracle", p.Databases[0].Archive)
	assert.Equal(t, 2, p.Databases[0].ArchiveTypeID)
	assert.Equal(t, "Elettronico", p.Databases[0].Type)
	assert.Len(t, p.Owners, 1)
	assert.Len(t, p.Responsible, 1)
	assert.Len(t, p.Recipients, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProcessingActivityDetailNotFound(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery("FROM trattamento T").
		WillReturnRows(sqlmock.NewRows(detailColumns()))

	p, err := w.GetProcessingActivityDetail(context.Background(), &models.SessionUser{}, "NONE", ActiveOnly, &models.Survey{ID: 7})
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProcessingActivityDetailRequiresUser(t *testing.T) {
	w, _ := newMockWrapper(t, db.Postgres)

	_, err := w.GetProcessingActivityDetail(context.Background(), nil, "STU01T", ActiveOnly, &models.Survey{ID: 7})
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestRecordAccess(t *testing.T) {
	pg, pgMock := newMockWrapper(t, db.Postgres)
	pgMock.ExpectExec(`INSERT INTO access_log .*VALUES \(\$1,CURRENT_DATE,CURRENT_TIME\) ON CONFLICT \(login\) DO UPDATE`).
		WithArgs("mrossi").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, pg.RecordAccess(context.Background(), "mrossi"))
	assert.NoError(t, pgMock.ExpectationsWereMet())

	my, myMock := newMockWrapper(t, db.MySQL)
	myMock.ExpectExec(`INSERT INTO access_log .* ON DUPLICATE KEY UPDATE`).
		WithArgs("mrossi").
		WillReturnResult(sqlmock.NewResult(0, 2))
	assert.NoError(t, my.RecordAccess(context.Background(), "mrossi"))
	assert.NoError(t, myMock.ExpectationsWereMet())

	assert.Error(t, my.RecordAccess(context.Background(), ""))
}

func TestAuthenticateUser(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery("FROM usr U JOIN persona P").
		WithArgs("mrossi", "segreta", "segreta").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "pid", "nome", "cognome", "email"}).
			AddRow(10, 1, "Mario", "Rossi", nil))
	mock.ExpectQuery("FROM ruolo_applicativo RA").
		WithArgs("mrossi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(2, "Referente"))

	user, err := w.AuthenticateUser(context.Background(), "mrossi", "segreta")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 10, user.UserID)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "Referente", user.Roles[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateUserWrongPassword(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery("FROM usr U JOIN persona P").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "pid", "nome", "cognome", "email"}))

	user, err := w.AuthenticateUser(context.Background(), "mrossi", "sbagliata")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEncryptedPassword(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT U.passwdform, U.salt FROM usr U WHERE U.login = $1")).
		WithArgs("mrossi").
		WillReturnRows(sqlmock.NewRows([]string{"passwdform", "salt"}).AddRow("abcd", "s4lt"))

	cred, err := w.GetEncryptedPassword(context.Background(), "mrossi")
	require.NoError(t, err)
	assert.Equal(t, &models.Credential{Digest: "abcd", Salt: "s4lt"}, cred)
}

func TestDigestPassword(t *testing.T) {
	a := DigestPassword("segreta", "s4lt")
	assert.Len(t, a, 64)
	assert.Equal(t, a, DigestPassword("segreta", "s4lt"))
	assert.NotEqual(t, a, DigestPassword("segreta", "altro"))
}

func TestIDBounds(t *testing.T) {
	w, mock := newMockWrapper(t, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(id) FROM rilevazione")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(id) FROM access_log")).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

	hi, err := w.GetMax(context.Background(), TableSurvey)
	require.NoError(t, err)
	assert.Equal(t, 12, hi)

	lo, err := w.GetMin(context.Background(), TableAccessLog)
	require.NoError(t, err)
	assert.Equal(t, 0, lo)

	_, err = w.GetMax(context.Background(), Table(99))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Table(99)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClock(t *testing.T) {
	assert.Equal(t, "", clock(nil))
	assert.Equal(t, "08:15:00", clock(time.Date(1, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, "08:15:00", clock([]byte("08:15:00")))
	assert.Equal(t, "08:15:00", clock("08:15:00"))
}
