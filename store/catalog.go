/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

// SurveyLoader is the query the catalog refreshes from.
type SurveyLoader interface {
	GetSurveys(ctx context.Context, id int, all int) ([]*models.Survey, error)
}

// SurveyCatalog keeps the closed surveys in memory. It is built at startup
// and refreshed by the scheduler; requests only read it.
type SurveyCatalog struct {
	loader SurveyLoader

	mu     sync.RWMutex
	byCode map[string]*models.Survey
	latest *models.Survey
	all    []*models.Survey
}

func NewSurveyCatalog(loader SurveyLoader) *SurveyCatalog {
	return &SurveyCatalog{loader: loader, byCode: map[string]*models.Survey{}}
}

// Refresh reloads every closed survey and swaps the snapshot.
func (c *SurveyCatalog) Refresh(ctx context.Context) error {
	surveys, err := c.loader.GetSurveys(ctx, models.StatusAny, models.StatusAny)
	if err != nil {
		logs.Log("[ERROR][CATALOG] Failed to refresh surveys: " + err.Error())
		return err
	}

	byCode := make(map[string]*models.Survey, len(surveys))
	for _, s := range surveys {
		byCode[s.Code] = s
	}

	c.mu.Lock()
	c.byCode = byCode
	c.all = surveys
	c.latest = nil
	if len(surveys) > 0 {
		c.latest = surveys[0]
	}
	c.mu.Unlock()

	logs.Log(fmt.Sprintf("[INFO][CATALOG] Loaded %d closed survey(s)", len(surveys)))
	return nil
}

// ByCode finds a survey by its business code.
func (c *SurveyCatalog) ByCode(code string) (*models.Survey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.byCode[code]
	return s, ok
}

// Latest returns the most recent closed survey, nil when there is none.
func (c *SurveyCatalog) Latest() *models.Survey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.latest
}

// All returns the surveys, most recent first.
func (c *SurveyCatalog) All() []*models.Survey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*models.Survey(nil), c.all...)
}
