/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package utils

import (
	"github.com/nethesis/tol/logs"
)

// LogError logs err at error level.
func LogError(err error) {
	if err == nil {
		return
	}
	logs.Logger().Error(err.Error())
}
