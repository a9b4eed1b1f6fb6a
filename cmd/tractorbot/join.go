package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/lox/tractorbot/internal/config"
)

type JoinCmd struct {
	Server   string        `help:"WebSocket server URL"`
	Room     string        `help:"Room to join"`
	Name     string        `help:"Agent name"`
	Seed     int64         `help:"Random seed (0 for current time)"`
	Delay    time.Duration `help:"Think delay before each action"`
	Policy   string        `help:"Draw policy override (free_use|no_format_based_draw|longer_tuples_protected)"`
	LogLevel string        `default:"info" help:"Log level (debug|info|warn|error)"`
	LogJSON  bool          `help:"Output JSON logs instead of console format"`
	Config   string        `default:"tractorbot.hcl" help:"Path to HCL config file"`
}

// merge applies flag values over the loaded config. Flags left at their zero
// value defer to the file.
func (c *JoinCmd) merge(cfg *config.Config) {
	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.Room != "" {
		cfg.Agent.Room = c.Room
	}
	if c.Name != "" {
		cfg.Agent.Name = c.Name
	}
	if c.Seed != 0 {
		cfg.Agent.Seed = c.Seed
	}
	if c.Delay > 0 {
		cfg.Agent.ThinkDelayMS = int(c.Delay / time.Millisecond)
	}
	if c.Policy != "" {
		cfg.Agent.DrawPolicy = c.Policy
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogJSON {
		cfg.Log.JSON = true
	}
}

func (c *JoinCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	c.merge(cfg)
	if cfg.Agent.Name == "" {
		cfg.Agent.Name = fmt.Sprintf("tractorbot-%s", uuid.NewString()[:8])
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.JSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() {
		runErr <- runAgent(ctx, cfg, cfg.Agent.Name, logger)
	}()

	select {
	case <-interrupt:
		cancel()
		return nil
	case err := <-runErr:
		return err
	}
}
