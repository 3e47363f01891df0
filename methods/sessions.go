/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"context"
	"strconv"
	"time"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/store"
)

// PurgeExpiredSessions returns the periodic job that drops sessions older
// than timeout.
func PurgeExpiredSessions(timeout time.Duration) func() {
	return func() {
		if n := store.PurgeExpiredSessions(timeout, time.Now().UTC()); n > 0 {
			logs.Log("[INFO][SESSIONS] Purged " + strconv.Itoa(n) + " expired sessions")
		}
	}
}

// RefreshSurveys returns the periodic job that reloads the survey catalog.
func RefreshSurveys(catalog *store.SurveyCatalog) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := catalog.Refresh(ctx); err != nil {
			logs.Log("[ERROR][SURVEYS] Catalog refresh failed: " + err.Error())
		}
	}
}
