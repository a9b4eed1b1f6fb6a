package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/tractorbot/internal/agent"
	"github.com/lox/tractorbot/internal/config"
	"github.com/lox/tractorbot/internal/randutil"
	"github.com/lox/tractorbot/internal/transport"
	"github.com/lox/tractorbot/internal/trick"
)

// runAgent connects one agent under the given name and plays until the
// session ends or ctx is canceled.
func runAgent(ctx context.Context, cfg *config.Config, name string, logger *log.Logger) error {
	seed := cfg.Agent.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	play := agent.RandomLegal{Rng: randutil.New(seed)}
	if cfg.Agent.DrawPolicy != "" {
		policy, err := trick.ParseDrawPolicy(cfg.Agent.DrawPolicy)
		if err != nil {
			return err
		}
		play.Policy = &policy
	}

	ctrl, err := agent.NewController(agent.Config{
		Name:   name,
		Play:   play,
		Logger: logger.WithPrefix("agent"),
	})
	if err != nil {
		return err
	}

	session, err := transport.Connect(cfg.Server.URL, cfg.Agent.Room, name, logger.WithPrefix("transport"))
	if err != nil {
		return err
	}
	defer session.Close()

	runner := agent.NewRunner(session, ctrl, nil, cfg.ThinkDelay(), logger.WithPrefix("agent"))
	return runner.Run(ctx)
}
