/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
)

const sessionsFile = "sessions.json"

// sessionSnapshot is the on-disk form of the session table.
type sessionSnapshot struct {
	SavedAt  time.Time             `json:"saved_at"`
	Sessions []*models.UserSession `json:"sessions"`
}

var (
	persistenceMutex sync.Mutex
	persistencePath  string
)

// InitPersistence points the session snapshot at dataDir. An empty
// directory keeps sessions in memory only.
func InitPersistence(dataDir string) {
	if dataDir == "" {
		persistencePath = ""
		return
	}
	persistencePath = filepath.Join(dataDir, sessionsFile)
	logs.Log("[INFO][PERSISTENCE] Sessions snapshot at " + persistencePath)
}

// SaveSessions writes the session table to the snapshot file, replacing
// the previous one only once the new file is complete.
func SaveSessions() error {
	if persistencePath == "" {
		return nil
	}

	persistenceMutex.Lock()
	defer persistenceMutex.Unlock()

	snapshot := sessionSnapshot{SavedAt: time.Now().UTC()}
	sessionsLock.RLock()
	for _, s := range UserSessions {
		snapshot.Sessions = append(snapshot.Sessions, s)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	sessionsLock.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode sessions")
	}

	if err := os.MkdirAll(filepath.Dir(persistencePath), 0700); err != nil {
		return errors.Wrap(err, "sessions directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(persistencePath), sessionsFile+".*")
	if err != nil {
		return errors.Wrap(err, "sessions temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write sessions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close sessions")
	}
	return errors.Wrap(os.Rename(tmp.Name(), persistencePath), "replace sessions")
}

// LoadSessions restores the snapshot into the session table. Entries that
// lost their id or user are dropped, they could never pass the identity
// check again.
func LoadSessions() error {
	if persistencePath == "" {
		return nil
	}

	persistenceMutex.Lock()
	defer persistenceMutex.Unlock()

	data, err := os.ReadFile(persistencePath)
	if os.IsNotExist(err) {
		logs.Log("[INFO][PERSISTENCE] No sessions snapshot yet")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read sessions")
	}

	var snapshot sessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return errors.Wrap(err, "decode sessions")
	}

	restored, dropped := 0, 0
	sessionsLock.Lock()
	for _, s := range snapshot.Sessions {
		if s == nil || s.ID == "" || s.User == nil {
			dropped++
			continue
		}
		UserSessions[s.ID] = s
		restored++
	}
	sessionsLock.Unlock()

	logs.Log(fmt.Sprintf("[INFO][PERSISTENCE] Restored %d session(s) saved at %s, %d dropped",
		restored, snapshot.SavedAt.Format(time.RFC3339), dropped))
	return nil
}
