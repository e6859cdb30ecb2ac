// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

import (
	"sync"
	"time"
)

// Renderer drives a Port, owning the display-refresh policy of spec §4.4:
// brightness-on-every-render, the 20s idle timeout, and the 5s info-mode
// auto-refresh cadence. Row composition itself lives in the package-level
// Render* functions; Renderer only sequences calls to Port and tracks the
// timers spec §3 lists as ViewershipState transients (display_on_time,
// refreshed_info_at) but which are, in practice, purely a display-driver
// concern.
type Renderer struct {
	port Port

	mu              sync.Mutex
	displayOnTime   *time.Time
	refreshedInfoAt *time.Time
}

// NewRenderer wraps port.
func NewRenderer(port Port) *Renderer {
	return &Renderer{port: port}
}

// Render sends top/bottom at the given brightness and records
// display_on_time, per "brightness is set on every render" and
// "display_on_time is recorded on every non-auto-refresh render" (spec
// §4.4).
func (r *Renderer) Render(top, bottom string, brightness int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.port.SetBrightness(ClampBrightness(brightness)); err != nil {
		return err
	}
	if err := r.port.Send(top, bottom); err != nil {
		return err
	}
	t := now
	r.displayOnTime = &t
	return nil
}

// RenderInfoAutoRefresh sends an info-mode refresh without touching
// display_on_time, and records refreshed_info_at.
func (r *Renderer) RenderInfoAutoRefresh(top, bottom string, brightness int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.port.SetBrightness(ClampBrightness(brightness)); err != nil {
		return err
	}
	if err := r.port.Send(top, bottom); err != nil {
		return err
	}
	t := now
	r.refreshedInfoAt = &t
	return nil
}

// CheckIdleTimeout implements spec §4.4's idle-timeout rule: if
// now - display_on_time > IdleTimeout (or force is set), clear the
// display unless the TV is on, and reset the timers. It reports whether
// a reset occurred, so the caller can also clear its own
// last_known_key_press.
func (r *Renderer) CheckIdleTimeout(now time.Time, tvOn, force bool) (reset bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	due := force || (r.displayOnTime != nil && now.Sub(*r.displayOnTime) > IdleTimeout)
	if !due {
		return false, nil
	}
	if !tvOn {
		if err := r.port.Clear(); err != nil {
			return false, err
		}
	}
	r.displayOnTime = nil
	r.refreshedInfoAt = nil
	return true, nil
}

// InfoRefreshDue reports whether InfoRefreshPeriod has elapsed since the
// last info auto-refresh (or no refresh has happened yet).
func (r *Renderer) InfoRefreshDue(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.refreshedInfoAt == nil || now.Sub(*r.refreshedInfoAt) > InfoRefreshPeriod
}

// SetBrightness forwards a brightness change to the port without
// touching the display rows or timers (spec §4.5 "INCB/DECB"; unlike
// Render, these keys adjust the backlight in place rather than
// recomposing the screen).
func (r *Renderer) SetBrightness(level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.port.SetBrightness(ClampBrightness(level))
}

// SetPort swaps the underlying Port, for installation-mode close/reopen
// cycles where the physical device handle is replaced but the Renderer's
// timer state should carry over.
func (r *Renderer) SetPort(port Port) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.port = port
}

// DisplayOnTime returns the last recorded display_on_time, or nil.
func (r *Renderer) DisplayOnTime() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.displayOnTime
}
