// Command tableserver is a demo binary proving the core packages wire
// together: it loads config.Config, spins up one table.Mediator per
// configured table, exposes them over internal/gateway's WebSocket
// transport, and persists snapshots through internal/snapshotstore.
// Flags are parsed with kong; config load, override, and validate happen
// before anything starts listening; shutdown on SIGINT/SIGTERM snapshots
// every table before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"tablecore/holdem"
	"tablecore/internal/config"
	"tablecore/internal/gateway"
	"tablecore/internal/snapshotstore"
	"tablecore/table"
)

var cli struct {
	Config   string `short:"c" long:"config" default:"tableserver.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level: debug, info, warn, error (overrides config)"`
	DBPath   string `long:"db" default:"tableserver.db" help:"Path to the snapshot sqlite database"`
}

// namedTransport pins a table.Mediator's published views to a stable,
// human-chosen table name instead of the mediator's internal uuid, so
// WebSocket clients can subscribe by the name they configured.
type namedTransport struct {
	name string
	gw   *gateway.Gateway
}

func (t namedTransport) PublishPublic(_ string, view holdem.PublicView) {
	t.gw.PublishPublic(t.name, view)
}

func (t namedTransport) PublishPlayer(_ string, playerID string, view holdem.PlayerView) {
	t.gw.PublishPlayer(t.name, playerID, view)
}

func main() {
	ctx := kong.Parse(&cli)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		ctx.Exit(1)
	}
	if cli.Addr != "" {
		cfg.Server.Address = cli.Addr
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	store, err := snapshotstore.Open(cli.DBPath)
	if err != nil {
		logger.Error("failed to open snapshot store", "err", err)
		ctx.Exit(1)
	}
	defer store.Close()

	registry := make(map[string]*table.Mediator, len(cfg.Tables))

	var gw *gateway.Gateway
	dispatch := func(tableID, playerID string, action holdem.Action) error {
		m, ok := registry[tableID]
		if !ok {
			return fmt.Errorf("unknown table %q", tableID)
		}
		return m.ApplyAction(context.Background(), playerID, action)
	}
	gw = gateway.New(dispatch, logger)

	for _, tableSpec := range cfg.Tables {
		m := table.NewMediator(holdem.Options{
			SmallBlind:   tableSpec.SmallBlind,
			BigBlind:     tableSpec.BigBlind,
			InitialStack: tableSpec.InitialStack,
		}, namedTransport{name: tableSpec.Name, gw: gw}, logger)
		registry[tableSpec.Name] = m

		if snap, err := store.Load(context.Background(), tableSpec.Name); err == nil {
			if err := m.Restore(context.Background(), snap.State); err != nil {
				logger.Warn("failed to restore snapshot", "table", tableSpec.Name, "err", err)
			} else {
				logger.Info("restored table from snapshot", "table", tableSpec.Name, "handNumber", snap.GameVersion)
			}
		} else if !errors.Is(err, snapshotstore.ErrNotFound) {
			logger.Warn("failed to load snapshot", "table", tableSpec.Name, "err", err)
		}

		logger.Info("table ready", "name", tableSpec.Name, "smallBlind", tableSpec.SmallBlind, "bigBlind", tableSpec.BigBlind)
	}

	lobby := gateway.NewLobbyHandler(
		func(ctx context.Context, tableID, playerID string, stack int64) error {
			m, ok := registry[tableID]
			if !ok {
				return fmt.Errorf("unknown table %q", tableID)
			}
			if stack <= 0 {
				stack = m.DefaultInitialStack()
			}
			return m.Seat(ctx, playerID, stack)
		},
		func(ctx context.Context, tableID, playerID string) error {
			m, ok := registry[tableID]
			if !ok {
				return fmt.Errorf("unknown table %q", tableID)
			}
			return m.Unseat(ctx, playerID)
		},
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	lobby.RegisterRoutes(mux)
	server := &http.Server{Addr: cfg.Server.Address, Handler: mux}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("shutting down, saving snapshots")
		for name, m := range registry {
			snap, err := m.Snapshot(context.Background())
			if err != nil {
				logger.Warn("failed to snapshot table on shutdown", "table", name, "err", err)
				continue
			}
			if err := store.Save(context.Background(), name, snap); err != nil {
				logger.Warn("failed to save snapshot on shutdown", "table", name, "err", err)
			}
		}
		_ = server.Close()
	}()

	logger.Info("tableserver listening", "addr", cfg.Server.Address, "tables", len(cfg.Tables))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		ctx.Exit(1)
	}
}
