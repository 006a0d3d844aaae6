// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for quartermaster.
//
// Configuration is loaded from a single YAML file specified by:
//   - QUARTERMASTER_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. The config file is
// the single source of truth; environment variables do not override
// individual values. Session credentials (Matrix user ID and access
// token) live separately in state_dir/session.json so that the config
// file can be checked into version control without secrets.
package config
