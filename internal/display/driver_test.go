// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_SetsBrightnessAndDisplayOnTime(t *testing.T) {
	port := &FakePort{}
	r := NewRenderer(port)
	now := time.Now()

	require.NoError(t, r.Render("TOP", "BOT", 300, now))
	assert.Equal(t, "TOP", port.Top)
	assert.Equal(t, "BOT", port.Bottom)
	assert.Equal(t, MaxBrightness, port.Brightness)
	require.NotNil(t, r.DisplayOnTime())
	assert.Equal(t, now, *r.DisplayOnTime())
}

func TestRenderer_RenderInfoAutoRefresh_DoesNotTouchDisplayOnTime(t *testing.T) {
	port := &FakePort{}
	r := NewRenderer(port)
	first := time.Now()
	require.NoError(t, r.Render("TOP", "BOT", 100, first))

	later := first.Add(2 * time.Second)
	require.NoError(t, r.RenderInfoAutoRefresh("WMK:1  GSM:0", "L:1  o", 100, later))

	require.NotNil(t, r.DisplayOnTime())
	assert.Equal(t, first, *r.DisplayOnTime())
	assert.False(t, r.InfoRefreshDue(later))
}

func TestRenderer_CheckIdleTimeout_ClearsWhenTVOff(t *testing.T) {
	port := &FakePort{}
	r := NewRenderer(port)
	start := time.Now()
	require.NoError(t, r.Render("A", "B", 100, start))

	reset, err := r.CheckIdleTimeout(start.Add(21*time.Second), false, false)
	require.NoError(t, err)
	assert.True(t, reset)
	assert.True(t, port.Cleared)
	assert.Nil(t, r.DisplayOnTime())
}

func TestRenderer_CheckIdleTimeout_KeepsGridWhenTVOn(t *testing.T) {
	port := &FakePort{}
	r := NewRenderer(port)
	start := time.Now()
	require.NoError(t, r.Render("A", "B", 100, start))

	reset, err := r.CheckIdleTimeout(start.Add(21*time.Second), true, false)
	require.NoError(t, err)
	assert.True(t, reset)
	assert.False(t, port.Cleared)
}

func TestRenderer_CheckIdleTimeout_NotYetDue(t *testing.T) {
	port := &FakePort{}
	r := NewRenderer(port)
	start := time.Now()
	require.NoError(t, r.Render("A", "B", 100, start))

	reset, err := r.CheckIdleTimeout(start.Add(5*time.Second), false, false)
	require.NoError(t, err)
	assert.False(t, reset)
}

func TestRenderer_InfoRefreshDue_TrueBeforeFirstRefresh(t *testing.T) {
	r := NewRenderer(&FakePort{})
	assert.True(t, r.InfoRefreshDue(time.Now()))
}
