/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import (
	"encoding/json"
	"errors"
)

// ErrAttributeNotSet is returned when a mandatory attribute is read before
// it was assigned.
var ErrAttributeNotSet = errors.New("attribute not set")

// AttributeError names the mandatory attribute that was missing.
type AttributeError struct {
	Field string
}

func (e *AttributeError) Error() string {
	return "attribute not set: " + e.Field
}

func (e *AttributeError) Is(target error) bool {
	return target == ErrAttributeNotSet
}

// Required holds a mandatory attribute. The zero value is unset and Get
// refuses to hand out a default.
type Required[T any] struct {
	field string
	value T
	set   bool
}

// NewRequired returns an unset attribute labelled with its field name.
func NewRequired[T any](field string) Required[T] {
	return Required[T]{field: field}
}

// Set assigns the value.
func (r *Required[T]) Set(v T) {
	r.value = v
	r.set = true
}

func (r Required[T]) IsSet() bool {
	return r.set
}

// Get returns the value, or an *AttributeError when it was never set.
func (r Required[T]) Get() (T, error) {
	if !r.set {
		var zero T
		field := r.field
		if field == "" {
			field = "unknown"
		}
		return zero, &AttributeError{Field: field}
	}
	return r.value, nil
}

// MustGet is Get for callers that already checked IsSet.
func (r Required[T]) MustGet() T {
	v, err := r.Get()
	if err != nil {
		panic(err)
	}
	return v
}

func (r Required[T]) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}
