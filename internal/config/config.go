// Package config loads agent configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/tractorbot/internal/trick"
)

// Config represents the complete agent configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Agent  AgentSettings  `hcl:"agent,block"`
	Log    LogSettings    `hcl:"log,block"`
}

// ServerSettings contains server connection settings
type ServerSettings struct {
	URL string `hcl:"url"`
}

// AgentSettings contains agent behavior settings
type AgentSettings struct {
	Room         string `hcl:"room,optional"`
	Name         string `hcl:"name,optional"`
	Seed         int64  `hcl:"seed,optional"`
	ThinkDelayMS int    `hcl:"think_delay_ms,optional"`
	DrawPolicy   string `hcl:"draw_policy,optional"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// DefaultConfig returns default agent configuration. The agent name has no
// default: the CLI generates one when neither flag nor file provides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			URL: "ws://localhost:8080",
		},
		Agent: AgentSettings{
			Room: "main",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadConfig loads agent configuration from HCL file
func LoadConfig(filename string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()

	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Agent.Room == "" {
		config.Agent.Room = defaults.Agent.Room
	}
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	return &config, nil
}

// ThinkDelay returns the configured think delay as a duration
func (c *Config) ThinkDelay() time.Duration {
	return time.Duration(c.Agent.ThinkDelayMS) * time.Millisecond
}

// Validate validates the agent configuration
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}

	if c.Agent.Room == "" {
		return fmt.Errorf("room name is required")
	}

	if c.Agent.Name == "" {
		return fmt.Errorf("agent name is required")
	}

	if c.Agent.ThinkDelayMS < 0 {
		return fmt.Errorf("think delay cannot be negative")
	}

	if c.Agent.DrawPolicy != "" {
		if _, err := trick.ParseDrawPolicy(c.Agent.DrawPolicy); err != nil {
			return fmt.Errorf("invalid draw policy: %w", err)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}
