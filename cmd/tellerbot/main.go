package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/config"
	"github.com/truongvq/tellerbot/internal/cron"
	"github.com/truongvq/tellerbot/internal/dialog"
	"github.com/truongvq/tellerbot/internal/gateway"
	"github.com/truongvq/tellerbot/internal/policy"
	"github.com/truongvq/tellerbot/internal/reply"
	"github.com/truongvq/tellerbot/internal/session"
	"github.com/truongvq/tellerbot/internal/validate"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("tellerbot v%s\n", version)
	case "init":
		if err := initConfig(); err != nil {
			slog.Error("fatal", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(); err != nil {
			slog.Error("fatal", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Tellerbot - Banking Chat Assistant")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tellerbot serve     Start the gateway server")
	fmt.Println("  tellerbot init      Write a starter config with a generated token")
	fmt.Println("  tellerbot version   Show version info")
}

func initConfig() error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.CreateFromExample(path); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", path)
	return nil
}

func serve() error {
	// .env is optional; real env vars win.
	godotenv.Load()

	home := config.ResolveHome()
	os.MkdirAll(filepath.Join(home, "logs"), 0755)

	cfgPath := config.ResolveConfigPath("")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", cfgPath, "error", err)
		cfg = config.DefaultConfig()
	}
	config.Set(cfg)

	level := new(slog.LevelVar)
	level.Set(logLevel(cfg.Log.Level))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	config.RegisterOnReload(func(c *config.Config) {
		level.Set(logLevel(c.Log.Level))
	})
	slog.Info("Tellerbot starting", "version", version, "home", home)

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	repo := bank.Seed()
	policies := policy.NewStore()
	validator := validate.New(policies)
	generator := reply.NewGenerator(policies, repo)

	manager := dialog.NewManager(dialog.ManagerOptions{
		Store:     store,
		Generator: generator,
		Bank:      repo,
		Policy:    policies,
		Validator: validator,
		Delays: dialog.Delays{
			Reply:           cfg.Chat.ReplyDelay.Std(),
			History:         cfg.Chat.HistoryDelay.Std(),
			Confirm:         cfg.Chat.ConfirmDelay.Std(),
			HandoverConnect: cfg.Chat.HandoverConnectDelay.Std(),
			AgentJoin:       cfg.Chat.AgentJoinDelay.Std(),
		},
		IdleAfter: cfg.Chat.SessionIdle.Std(),
	})

	sweeper, err := cron.NewSweeper(cfg.Chat.SweepSchedule, manager.SweepIdle)
	if err != nil {
		return fmt.Errorf("sweep schedule: %w", err)
	}
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go config.Watch(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig)
		cancel()
	}()

	srv := gateway.NewServer(cfg, manager, repo, validator)
	return srv.Start(ctx)
}

func buildStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		slog.Info("redis transcript store", "addr", cfg.Store.Redis.Addr, "db", cfg.Store.Redis.DB)
		return session.NewRedisStore(client, cfg.Store.Redis.TTL.Std()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
