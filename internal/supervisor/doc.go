// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package supervisor runs the Controller's single long-running service —
PollLoop, the spec §4.7 supervisor loop — under a suture v4 supervisor,
following the teacher's supervisor tree pattern.

# Overview

	Tree ("audience-controller")
	└── PollLoop (spec §4.7, one iteration per ~100ms)

The teacher's tree organizes several independent services (data,
messaging, api) into layers for failure isolation. This Controller has
exactly one, so Tree wraps a single suture.Supervisor rather than a
hierarchy. The shape is kept because it is still the right one: suture's
automatic restart (with exponential backoff on repeated failures) is
exactly the resiliency spec §7's error taxonomy asks for around PollLoop
— display and socket I/O errors are caught inside the loop itself, but a
panic or an unrecovered persistent-store failure should restart the
whole loop rather than take the process down.

# Configuration

TreeConfig controls restart behavior; DefaultTreeConfig matches suture's
own defaults. A sutureslog.Handler bridges suture's restart/failure
events into the Controller's zerolog logger via the internal/logging
slog adapter.

# Service Interface

PollLoop implements suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning nil means clean shutdown (no restart); returning an error
means suture restarts it, subject to the failure-threshold/backoff
policy; a canceled context must return promptly.
*/
package supervisor
