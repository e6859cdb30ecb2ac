// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_FreshStoreReturnsZeroValues(t *testing.T) {
	s := openTestStore(t)

	row, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, row.DeclaredViewers)
	assert.False(t, row.LastKnownTVState)
	assert.Empty(t, row.GuestsRegistered)
	assert.Equal(t, "", row.ClearedForAud)
	assert.False(t, row.Absent)
	assert.Equal(t, 0, row.BrightnessLevel)
	assert.False(t, row.InInstallationMode)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := &Row{
		DeclaredViewers:  []string{"A", "B", "G3"},
		LastKnownTVState: true,
		GuestsRegistered: []GuestEntry{
			{Position: "3", Identity: "M2"},
		},
		ClearedForAud:      "2026-07-30 22:00:00",
		Absent:             true,
		BrightnessLevel:    180,
		InInstallationMode: false,
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want.DeclaredViewers, got.DeclaredViewers)
	assert.Equal(t, want.LastKnownTVState, got.LastKnownTVState)
	assert.Equal(t, want.GuestsRegistered, got.GuestsRegistered)
	assert.Equal(t, want.ClearedForAud, got.ClearedForAud)
	assert.Equal(t, want.Absent, got.Absent)
	assert.Equal(t, want.BrightnessLevel, got.BrightnessLevel)
	assert.Equal(t, want.InInstallationMode, got.InInstallationMode)
}

func TestSave_OverwritesPreviousRow(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save(&Row{DeclaredViewers: []string{"A"}, BrightnessLevel: 100}))
	require.NoError(t, s.Save(&Row{DeclaredViewers: []string{}, BrightnessLevel: 255, InInstallationMode: true}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got.DeclaredViewers)
	assert.Equal(t, 255, got.BrightnessLevel)
	assert.True(t, got.InInstallationMode)
}
