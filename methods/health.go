/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"

	"github.com/nethesis/tol/db"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

// Health reports whether the service and its database answer.
func Health(pool *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx, pool); err != nil {
				logs.Log("[ERROR][HEALTH] Database check failed: " + err.Error())
				c.JSON(http.StatusServiceUnavailable, structs.Map(models.StatusServiceUnavailable{
					Code:    http.StatusServiceUnavailable,
					Message: "database unavailable",
					Data:    nil,
				}))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "healthy",
			"status":  "ok",
		})
	}
}
