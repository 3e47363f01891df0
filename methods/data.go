/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/nethesis/tol/command"
	"github.com/nethesis/tol/configuration"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/middleware"
	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/report"
)

// DataPath serves the same pages as the root and is the path used for
// exports. Unknown action tokens on it are refused.
const DataPath = "/data"

// Controller dispatches every page request to the command bound to its
// action token.
type Controller struct {
	Registry    *command.Registry
	EntityParam string
	OutputParam string

	ImagesDir        string
	ControllerSuffix string
	ProcessorSuffix  string

	Now func() time.Time
}

func NewController(registry *command.Registry, cfg *configuration.Configuration) *Controller {
	return &Controller{
		Registry:         registry,
		EntityParam:      cfg.EntityParam,
		OutputParam:      cfg.OutputParam,
		ImagesDir:        cfg.ImagesDir,
		ControllerSuffix: cfg.ControllerSuffix,
		ProcessorSuffix:  cfg.ProcessorSuffix,
		Now:              time.Now,
	}
}

// Handle serves GET and POST on the application root.
func (ctl *Controller) Handle(c *gin.Context) {
	body, err := formBody(c)
	if err == nil {
		err = c.Request.ParseForm()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, structs.Map(models.StatusBadRequest{
			Code:    http.StatusBadRequest,
			Message: "request fields malformed",
			Data:    err.Error(),
		}))
		return
	}
	params := c.Request.Form

	token := params.Get(ctl.EntityParam)
	if token == "" {
		token = command.TokenHome
	}
	output := strings.ToLower(params.Get(ctl.OutputParam))

	export := command.IsExport(output)
	cmd, ok := ctl.Registry.Lookup(token)
	if !ok && (export || c.FullPath() == DataPath) {
		logs.Log("[SECURITY][DISPATCH] Hacking test? Unknown action token " + token + " on " + c.FullPath() + " from " + c.ClientIP())
		c.JSON(http.StatusInternalServerError, structs.Map(models.StatusInternalServerError{
			Code:    http.StatusInternalServerError,
			Message: "output not available",
			Data:    nil,
		}))
		return
	}
	if !ok {
		logs.Log("[WARNING][DISPATCH] Unknown action token " + token)
		c.JSON(http.StatusNotFound, structs.Map(models.StatusNotFound{
			Code:    http.StatusNotFound,
			Message: "Funzione non trovata.",
			Data:    nil,
		}))
		return
	}

	req := &command.Request{
		Params:     params,
		RawQuery:   rawQuery(c, body),
		Output:     output,
		Invalidate: middleware.Invalidate(c),
	}
	if export && token != command.TokenRegister {
		logs.Log("[SECURITY][DISPATCH] Hacking test? Output " + output + " requested for " + token + " from " + c.ClientIP())
		c.JSON(http.StatusInternalServerError, structs.Map(models.StatusInternalServerError{
			Code:    http.StatusInternalServerError,
			Message: "output not available",
			Data:    nil,
		}))
		return
	}
	if s := middleware.CurrentSession(c); s != nil {
		req.User = s.User
	}

	res, err := cmd.Execute(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	if export {
		ctl.export(c, output, res)
		return
	}

	view := models.View{Page: res.Page, Attributes: res.Attributes}
	if item, ok := ctl.Registry.Item(token); ok {
		view.Title = item.Label
	}

	// attributes hold records with their own JSON encoding
	c.JSON(http.StatusOK, models.StatusOK{
		Code:    http.StatusOK,
		Message: "success",
		Data:    view,
	})
}

// formBody returns an urlencoded POST body as sent and puts it back for
// ParseForm.
func formBody(c *gin.Context) (string, error) {
	if c.Request.Method != http.MethodPost || c.ContentType() != binding.MIMEPOSTForm {
		return "", nil
	}
	data, err := c.GetRawData()
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	return string(data), nil
}

// rawQuery keeps the parameters in the order the client sent them, the
// breadcrumbs follow it.
func rawQuery(c *gin.Context, body string) string {
	if raw := c.Request.URL.RawQuery; raw != "" {
		return raw
	}
	return body
}

// fail maps a command error to its response.
func fail(c *gin.Context, err error) {
	msg := command.MessageOf(err)

	switch command.KindOf(err) {
	case command.KindAuthentication:
		c.JSON(http.StatusUnauthorized, structs.Map(models.StatusUnauthorized{
			Code:    http.StatusUnauthorized,
			Message: msg,
			Data: models.View{
				Page:       command.PageLogin,
				Attributes: map[string]interface{}{command.AttrMessage: msg},
			},
		}))
	case command.KindNavigation:
		c.JSON(http.StatusBadRequest, structs.Map(models.StatusBadRequest{
			Code:    http.StatusBadRequest,
			Message: msg,
			Data:    nil,
		}))
	case command.KindNotFound:
		c.JSON(http.StatusNotFound, structs.Map(models.StatusNotFound{
			Code:    http.StatusNotFound,
			Message: msg,
			Data:    nil,
		}))
	default:
		c.JSON(http.StatusInternalServerError, structs.Map(models.StatusInternalServerError{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Data:    nil,
		}))
	}
}

func (ctl *Controller) newPDF() *report.PDF {
	r := report.NewPDF(ctl.ImagesDir, ctl.ControllerSuffix, ctl.ProcessorSuffix)
	if ctl.Now != nil {
		r.Now = ctl.Now
	}
	return r
}
