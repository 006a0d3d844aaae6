// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/quartermaster/lib/ref"
)

// SessionCredentials are the bot's Matrix credentials, stored in
// state_dir/session.json separately from the config file.
type SessionCredentials struct {
	UserID      ref.UserID `json:"user_id"`
	AccessToken string     `json:"access_token"`
}

// sessionFileName is the credentials file inside the state directory.
const sessionFileName = "session.json"

// LoadSession reads the bot's credentials from stateDir/session.json.
func LoadSession(stateDir string) (*SessionCredentials, error) {
	path := filepath.Join(stateDir, sessionFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading session credentials %s: %w", path, err)
	}

	var credentials SessionCredentials
	if err := json.Unmarshal(data, &credentials); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if credentials.UserID.IsZero() {
		return nil, fmt.Errorf("config: %s: user_id is required", path)
	}
	if credentials.AccessToken == "" {
		return nil, fmt.Errorf("config: %s: access_token is required", path)
	}
	return &credentials, nil
}
