/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"bytes"
	"net/http"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nethesis/tol/command"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/report"
	"github.com/nethesis/tol/utils"
)

// export streams the records collected by the register command as a file.
// The document is built in memory so that a failure still gets a JSON reply.
func (ctl *Controller) export(c *gin.Context, output string, res *command.Result) {
	records, _ := res.Attributes[command.AttrRegister].([]*models.ProcessingActivity)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		ext         string
	)
	switch output {
	case command.OutputPDF:
		contentType, ext = report.PDFContentType, ".pdf"
		err = ctl.newPDF().Render(&buf, records)
	case command.OutputCSV:
		contentType, ext = report.CSVContentType, ".csv"
		err = report.WriteCSV(&buf, records)
	case command.OutputXLSX:
		contentType, ext = report.XLSXContentType, ".xlsx"
		err = report.WriteXLSX(&buf, records)
	}

	if errors.Is(err, report.ErrNoRecords) {
		c.JSON(http.StatusNotFound, structs.Map(models.StatusNotFound{
			Code:    http.StatusNotFound,
			Message: "Nessun trattamento da esportare.",
			Data:    nil,
		}))
		return
	}
	if err != nil {
		utils.LogError(errors.Wrap(err, "[EXPORT] "+output+" generation failed"))
		c.JSON(http.StatusInternalServerError, structs.Map(models.StatusInternalServerError{
			Code:    http.StatusInternalServerError,
			Message: "export failed",
			Data:    nil,
		}))
		return
	}

	name := report.MakeFilename(exportLabel(res), ctl.now()) + ext
	logs.Log("[INFO][EXPORT] Sending " + name)

	c.Header("Content-Disposition", "attachment;filename="+name)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// exportLabel names the file after the single record, or the survey for
// a full register.
func exportLabel(res *command.Result) string {
	if p, ok := res.Attributes[command.AttrProcessing].(*models.ProcessingActivity); ok {
		if code, err := p.Code.Get(); err == nil {
			return "Trattamento_" + code
		}
	}
	if s, ok := res.Attributes[command.AttrSurvey].(*models.Survey); ok && s.Code != "" {
		return "Registro_" + s.Code
	}
	return "Registro"
}

func (ctl *Controller) now() time.Time {
	if ctl.Now == nil {
		return time.Now()
	}
	return ctl.Now()
}
