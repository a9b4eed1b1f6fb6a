package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tractorbot/internal/config"
	"github.com/lox/tractorbot/internal/randutil"
)

type SpawnCmd struct {
	Count    int           `default:"4" help:"Number of agents to spawn"`
	Prefix   string        `default:"tractorbot" help:"Name prefix for generated agents"`
	Server   string        `help:"WebSocket server URL"`
	Room     string        `help:"Room to join"`
	Seed     int64         `help:"Base random seed (0 for current time)"`
	Delay    time.Duration `help:"Think delay before each action"`
	Policy   string        `help:"Draw policy override (free_use|no_format_based_draw|longer_tuples_protected)"`
	LogLevel string        `default:"info" help:"Log level (debug|info|warn|error)"`
	LogJSON  bool          `help:"Output JSON logs instead of console format"`
	Config   string        `default:"tractorbot.hcl" help:"Path to HCL config file"`
}

func (c *SpawnCmd) Run() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}

	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	join := JoinCmd{
		Server:   c.Server,
		Room:     c.Room,
		Seed:     c.Seed,
		Delay:    c.Delay,
		Policy:   c.Policy,
		LogLevel: c.LogLevel,
		LogJSON:  c.LogJSON,
	}
	join.merge(cfg)
	if cfg.Agent.Name == "" {
		// Unused downstream: every agent gets its own generated name.
		cfg.Agent.Name = c.Prefix
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.JSON)

	baseSeed := cfg.Agent.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	seeder := randutil.New(baseSeed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.Count; i++ {
		name := fmt.Sprintf("%s-%s", c.Prefix, uuid.NewString()[:8])

		// Independent seed per agent so their choices do not correlate.
		agentCfg := *cfg
		agentCfg.Agent.Seed = seeder.Int64()
		agentLogger := logger.With("agent", name)

		g.Go(func() error {
			return runAgent(gctx, &agentCfg, name, agentLogger)
		})
	}

	logger.Info("Spawned agents", "count", c.Count, "room", cfg.Agent.Room)

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case <-interrupt:
		cancel()
		return nil
	case err := <-done:
		return err
	}
}
