// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main is the entry point for the audience-measurement meter's
// remote and display Controller.
//
// # Application Architecture
//
// The process initializes components in the following order:
//
//  1. Configuration: load settings from the environment (Koanf v2)
//  2. Logging: zerolog console output, debug level when VERBOSE=1
//  3. Persistent store: BadgerDB, opened at STORE_PATH
//  4. Event emitter: Unix datagram socket at PUSH_ADDR
//  5. Display: serial device connect, circuit-breaker guarded
//  6. Viewership model: loaded from the persistent store
//  7. Supervisor tree: a single PollLoop service under suture v4
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the poll loop's context
// is cancelled, the supervisor waits up to its configured shutdown
// timeout for the loop to return, then the sentinel watcher and the store
// are closed.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/audience-controller/internal/config"
	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/events"
	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/platform"
	"github.com/tomtom215/audience-controller/internal/store"
	"github.com/tomtom215/audience-controller/internal/supervisor"
	"github.com/tomtom215/audience-controller/internal/viewership"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logLevel := "info"
	if cfg.Verbose {
		logLevel = "debug"
	}
	logging.Init(logging.Config{
		Level:  logLevel,
		Format: "console",
	})

	logging.Info().Msg("starting audience-controller")

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open persistent store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	emitter := events.NewEmitter(cfg.PushAddr)

	connector := display.NewConnector(func() (display.Port, error) {
		return display.OpenSerial(cfg.DisplayDevice)
	}, display.KnownSettleUSBID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initialPort, err := connector.Connect(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect display on startup")
	}

	renderer := display.NewRenderer(initialPort)

	plat := platform.NewExec(cfg.InstallationModeFile)

	model := viewership.New(st, emitter, renderer, plat, plat.RegisteredMembers(), platform.IsBM3(plat.MeterID()))
	if err := model.Load(); err != nil {
		logging.Fatal().Err(err).Msg("failed to load persisted viewership state")
	}

	sentinel, err := platform.NewSentinelWatcher(cfg.InstallationModeFile)
	if err != nil {
		logging.Warn().Err(err).Msg("sentinel watcher unavailable, installation-mode exit will use the full wait")
		sentinel = nil
	} else {
		defer func() {
			if err := sentinel.Close(); err != nil {
				logging.Error().Err(err).Msg("error closing sentinel watcher")
			}
		}()
	}

	sessionCloseOffset, err := cfg.SessionCloseOffset()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid AUDIENCE_SESSION_CLOSE_TIME")
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	pollLoop := supervisor.NewPollLoop(model, plat, connector, sentinel, initialPort, sessionCloseOffset)
	tree.Add(pollLoop)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}

	logging.Info().Msg("audience-controller stopped gracefully")
}
