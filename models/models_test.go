/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredUnset(t *testing.T) {
	r := NewRequired[string]("codice")
	assert.False(t, r.IsSet())

	_, err := r.Get()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAttributeNotSet)
	assert.Equal(t, "attribute not set: codice", err.Error())
	assert.Panics(t, func() { r.MustGet() })

	var zero Required[int]
	_, err = zero.Get()
	assert.Contains(t, err.Error(), "unknown")
}

func TestRequiredSet(t *testing.T) {
	r := NewRequired[string]("codice")
	r.Set("")

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "", v)
	assert.True(t, r.IsSet())
}

func TestProcessingActivityJSON(t *testing.T) {
	p := NewProcessingActivity()
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"code":null`)

	p.Code.Set("STU01T")
	out, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"code":"STU01T"`)
}

func TestHasSuffix(t *testing.T) {
	p := NewProcessingActivity()
	_, err := p.HasSuffix("T")
	assert.ErrorIs(t, err, ErrAttributeNotSet)

	p.Code.Set("stu01t")
	ok, err := p.HasSuffix("T")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = p.HasSuffix("R")
	assert.False(t, ok)
}

func TestDataCategories(t *testing.T) {
	c := DataCategories{Personal: true, Judicial: true, Anonymized: true}
	flags := c.Flags()

	assert.Len(t, flags, 11)
	assert.Equal(t, "Dati comuni", flags[0].Label)
	assert.Equal(t, 3, c.Count())
}

func TestLegalBasisLabel(t *testing.T) {
	assert.Equal(t, "Art. 9 (DATI PARTICOLARI)", LegalBasis{Item: Item{Name: "Art. 9"}, Kind: LegalBasisParticular}.Label())
	assert.Equal(t, "Art. 6", LegalBasis{Item: Item{Name: "Art. 6"}}.Label())
}
