// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/quartermaster/lib/authorization"
	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/config"
	"github.com/bureau-foundation/quartermaster/lib/ledger"
	"github.com/bureau-foundation/quartermaster/lib/notify"
	"github.com/bureau-foundation/quartermaster/lib/panel"
	"github.com/bureau-foundation/quartermaster/lib/service"
	"github.com/bureau-foundation/quartermaster/lib/store"
	"github.com/bureau-foundation/quartermaster/messaging"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		stateDir    string
		showVersion bool
	)

	pflag.StringVar(&configPath, "config", "", "path to quartermaster.yaml (or set QUARTERMASTER_CONFIG)")
	pflag.StringVar(&stateDir, "state-dir", "", "override the configured state directory")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("quartermaster %s\n", version)
		return nil
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load and validate the Matrix session.
	credentials, err := config.LoadSession(cfg.StateDir)
	if err != nil {
		return err
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: cfg.HomeserverURL,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	session, err := messaging.NewSession(client, credentials.UserID, credentials.AccessToken)
	if err != nil {
		return err
	}

	whoami, err := session.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("validating session: %w", err)
	}
	if whoami != credentials.UserID {
		return fmt.Errorf("session token belongs to %s, session.json says %s", whoami, credentials.UserID)
	}
	logger.Info("matrix session valid", "user_id", whoami.String())

	panelRoom := cfg.PanelRoomID()
	if _, err := session.JoinRoom(ctx, panelRoom); err != nil {
		return fmt.Errorf("joining panel room: %w", err)
	}

	// Construct the ledger stack.
	st, err := store.New(cfg.StateDir, logger)
	if err != nil {
		return err
	}
	location := cfg.Location()
	realClock := clock.Real()

	ldgr, err := ledger.New(ledger.Config{
		Store:    st,
		Catalog:  cfg.Catalog,
		Location: location,
		Clock:    realClock,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	gate, err := authorization.NewGate(cfg.LeaderRoles)
	if err != nil {
		return err
	}
	reconciler, err := panel.New(panel.Config{
		Store:         st,
		Messenger:     session,
		Room:          panelRoom,
		CommandPrefix: cfg.CommandPrefix,
		Location:      location,
		Clock:         realClock,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	notifier, err := notify.New(notify.Config{
		Sender:   session,
		Location: location,
		Clock:    realClock,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	b := &bot{
		session:       session,
		store:         st,
		ledger:        ldgr,
		gate:          gate,
		reconciler:    reconciler,
		notifier:      notifier,
		prompts:       newPromptTable(),
		clock:         realClock,
		logger:        logger,
		room:          panelRoom,
		selfID:        whoami,
		prefix:        cfg.CommandPrefix,
		refresh:       cfg.RefreshSchedule(),
		promptTimeout: cfg.PromptTimeoutDuration(),
	}

	// Bring the panel up to date before accepting commands.
	if err := b.reconcilePanel(ctx); err != nil {
		return fmt.Errorf("initial panel reconciliation: %w", err)
	}

	if cfg.HealthAddress != "" {
		healthServer := service.NewHTTPServer(service.HTTPServerConfig{
			Address: cfg.HealthAddress,
			Handler: healthHandler(),
			Logger:  logger,
		})
		go func() {
			if err := healthServer.Serve(ctx); err != nil {
				logger.Error("health server failed", "error", err)
			}
		}()
	}

	if cfg.AdminSocket != "" {
		adminServer := service.NewSocketServer(cfg.AdminSocket, logger)
		b.registerAdminActions(adminServer)
		go func() {
			if err := adminServer.Serve(ctx); err != nil {
				logger.Error("admin socket failed", "error", err)
			}
		}()
	}

	b.armRefresh(ctx)

	logger.Info("quartermaster running",
		"room", panelRoom.String(),
		"catalog_items", len(cfg.Catalog),
		"daily_refresh", b.refresh.String(),
	)
	return b.runSync(ctx)
}
