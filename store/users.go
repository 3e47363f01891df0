/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"sync"
	"time"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

var (
	UserSessions map[string]*models.UserSession
	sessionsLock sync.RWMutex
)

// UserSessionInit resets the session table.
func UserSessionInit() map[string]*models.UserSession {
	sessionsLock.Lock()
	defer sessionsLock.Unlock()

	UserSessions = make(map[string]*models.UserSession)
	return UserSessions
}

// AddSession registers a login under its token id.
func AddSession(session *models.UserSession) {
	sessionsLock.Lock()
	UserSessions[session.ID] = session
	sessionsLock.Unlock()

	persist()
}

// GetSession returns the live session with the given token id.
func GetSession(id string) (*models.UserSession, bool) {
	sessionsLock.RLock()
	defer sessionsLock.RUnlock()

	s, ok := UserSessions[id]
	return s, ok
}

// RemoveSession drops a session. It reports whether the session existed.
func RemoveSession(id string) bool {
	sessionsLock.Lock()
	_, ok := UserSessions[id]
	delete(UserSessions, id)
	sessionsLock.Unlock()

	if ok {
		persist()
	}
	return ok
}

// PurgeExpiredSessions removes sessions older than timeout and returns how
// many were dropped.
func PurgeExpiredSessions(timeout time.Duration, now time.Time) int {
	sessionsLock.Lock()
	purged := 0
	for id, s := range UserSessions {
		if now.Sub(s.CreatedAt) > timeout {
			delete(UserSessions, id)
			purged++
		}
	}
	sessionsLock.Unlock()

	if purged > 0 {
		persist()
	}
	return purged
}

func persist() {
	if err := SaveSessions(); err != nil {
		logs.Log("[ERROR][SESSIONS] Failed to persist sessions: " + err.Error())
	}
}
