/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"net/http"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"

	"github.com/nethesis/tol/middleware"
	"github.com/nethesis/tol/models"
)

// GetCurrentUser returns the person bound to the session of the request.
func GetCurrentUser(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if s == nil || s.User == nil {
		c.JSON(http.StatusUnauthorized, structs.Map(models.StatusUnauthorized{
			Code:    http.StatusUnauthorized,
			Message: "user session not found",
			Data:    nil,
		}))
		return
	}

	c.JSON(http.StatusOK, structs.Map(models.StatusOK{
		Code:    http.StatusOK,
		Message: "success",
		Data:    s.User,
	}))
}
