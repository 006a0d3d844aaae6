// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/schedule"
)

// Config is the master configuration for quartermaster.
type Config struct {
	// HomeserverURL is the base URL of the Matrix homeserver
	// (e.g., "http://localhost:6167"). Required.
	HomeserverURL string `yaml:"homeserver_url"`

	// StateDir holds session.json plus the persisted ledger
	// documents (inventory.json, bank.json, panel_message_id).
	// Required.
	StateDir string `yaml:"state_dir"`

	// PanelRoom is the Matrix room ID hosting the canonical control
	// panel and the command channel. Required.
	PanelRoom string `yaml:"panel_room"`

	// CommandPrefix introduces bot commands in room messages.
	// Default: "$"
	CommandPrefix string `yaml:"command_prefix"`

	// Timezone is the IANA zone used for transaction timestamps and
	// the daily refresh schedule. Default: Asia/Bangkok
	Timezone string `yaml:"timezone"`

	// DailyRefresh is the local wall-clock time ("HH:MM") at which
	// the panel is recreated each day. Default: "08:00"
	DailyRefresh string `yaml:"daily_refresh"`

	// PromptTimeout is how long an interactive prompt flow waits for
	// the user's follow-up message before expiring. Default: 3m
	PromptTimeout string `yaml:"prompt_timeout"`

	// HealthAddress is the listen address for the keep-alive HTTP
	// endpoint. Empty disables the listener. Default: ":8080"
	HealthAddress string `yaml:"health_address"`

	// AdminSocket is the path of the local admin Unix socket. Empty
	// disables the socket.
	AdminSocket string `yaml:"admin_socket"`

	// Catalog is the closed set of tracked inventory items. Items
	// outside the catalog are rejected on deposit and dropped on
	// load. Required, at least one item.
	Catalog []string `yaml:"catalog"`

	// LeaderRoles are the role names whose members may withdraw
	// items and money. Required, at least one role.
	LeaderRoles []string `yaml:"leader_roles"`
}

// Default returns the default configuration. These defaults are a
// base for the loaded file, not a substitute for it: HomeserverURL,
// StateDir, PanelRoom, Catalog, and LeaderRoles have no defaults and
// must come from the file.
func Default() *Config {
	return &Config{
		CommandPrefix: "$",
		Timezone:      "Asia/Bangkok",
		DailyRefresh:  "08:00",
		PromptTimeout: "3m",
		HealthAddress: ":8080",
	}
}

// Load loads configuration from the QUARTERMASTER_CONFIG environment
// variable. If the variable is not set, this fails; there is no
// automatic discovery.
func Load() (*Config, error) {
	configPath := os.Getenv("QUARTERMASTER_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("config: QUARTERMASTER_CONFIG environment variable not set; " +
			"set it to the path of your quartermaster.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging the
// file over Default() and validating the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.normalizeCatalog()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// normalizeCatalog sorts the catalog, drops empty entries, and
// removes duplicates. The ledger treats the catalog as a sorted set.
func (c *Config) normalizeCatalog() {
	seen := make(map[string]bool, len(c.Catalog))
	normalized := c.Catalog[:0]
	for _, item := range c.Catalog {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		normalized = append(normalized, item)
	}
	sort.Strings(normalized)
	c.Catalog = normalized
}

// Validate checks the configuration for errors. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.HomeserverURL == "" {
		errs = append(errs, fmt.Errorf("homeserver_url is required"))
	}
	if c.StateDir == "" {
		errs = append(errs, fmt.Errorf("state_dir is required"))
	}
	if c.PanelRoom == "" {
		errs = append(errs, fmt.Errorf("panel_room is required"))
	} else if _, err := ref.ParseRoomID(c.PanelRoom); err != nil {
		errs = append(errs, fmt.Errorf("panel_room: %w", err))
	}
	if c.CommandPrefix == "" {
		errs = append(errs, fmt.Errorf("command_prefix must not be empty"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if _, err := time.ParseDuration(c.PromptTimeout); err != nil {
		errs = append(errs, fmt.Errorf("prompt_timeout: %w", err))
	}
	if location, err := time.LoadLocation(c.Timezone); err == nil {
		if _, err := schedule.ParseDaily(c.DailyRefresh, location); err != nil {
			errs = append(errs, fmt.Errorf("daily_refresh: %w", err))
		}
	}
	if len(c.Catalog) == 0 {
		errs = append(errs, fmt.Errorf("catalog must list at least one item"))
	}
	if len(c.LeaderRoles) == 0 {
		errs = append(errs, fmt.Errorf("leader_roles must list at least one role"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PanelRoomID returns the panel room as a validated RoomID. Only
// valid after Validate has passed.
func (c *Config) PanelRoomID() ref.RoomID {
	return ref.MustParseRoomID(c.PanelRoom)
}

// Location returns the configured reporting timezone. Only valid
// after Validate has passed.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		panic(fmt.Sprintf("config: Location called on unvalidated config: %v", err))
	}
	return location
}

// PromptTimeoutDuration returns the parsed prompt timeout. Only valid
// after Validate has passed.
func (c *Config) PromptTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.PromptTimeout)
	if err != nil {
		panic(fmt.Sprintf("config: PromptTimeoutDuration called on unvalidated config: %v", err))
	}
	return d
}

// RefreshSchedule returns the parsed daily refresh schedule in the
// configured timezone. Only valid after Validate has passed.
func (c *Config) RefreshSchedule() schedule.Daily {
	daily, err := schedule.ParseDaily(c.DailyRefresh, c.Location())
	if err != nil {
		panic(fmt.Sprintf("config: RefreshSchedule called on unvalidated config: %v", err))
	}
	return daily
}
