// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quartermaster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

const validConfig = `
homeserver_url: http://localhost:6167
state_dir: /var/lib/quartermaster
panel_room: "!panel:example.org"
catalog:
  - ไม้
  - หิน
  - กระสุน
leader_roles:
  - หัวหน้าแก๊ง
  - Officer
`

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.CommandPrefix != "$" {
		t.Errorf("CommandPrefix = %q, want default %q", cfg.CommandPrefix, "$")
	}
	if cfg.Timezone != "Asia/Bangkok" {
		t.Errorf("Timezone = %q, want default Asia/Bangkok", cfg.Timezone)
	}
	if cfg.DailyRefresh != "08:00" {
		t.Errorf("DailyRefresh = %q, want default 08:00", cfg.DailyRefresh)
	}
	if got := cfg.PromptTimeoutDuration(); got != 3*time.Minute {
		t.Errorf("PromptTimeoutDuration = %v, want 3m", got)
	}
	if cfg.HealthAddress != ":8080" {
		t.Errorf("HealthAddress = %q, want default :8080", cfg.HealthAddress)
	}
	if cfg.PanelRoomID().String() != "!panel:example.org" {
		t.Errorf("PanelRoomID = %q", cfg.PanelRoomID())
	}
	if cfg.Location().String() != "Asia/Bangkok" {
		t.Errorf("Location = %q", cfg.Location())
	}
}

func TestCatalogNormalized(t *testing.T) {
	cfg, err := LoadFile(writeConfigFile(t, `
homeserver_url: http://localhost:6167
state_dir: /tmp/qm
panel_room: "!panel:example.org"
catalog:
  - หิน
  - ไม้
  - หิน
  - ""
  - Ammo
leader_roles: [Officer]
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := []string{"Ammo", "หิน", "ไม้"}
	if len(cfg.Catalog) != len(want) {
		t.Fatalf("Catalog = %v, want %v", cfg.Catalog, want)
	}
	for i := range want {
		if cfg.Catalog[i] != want[i] {
			t.Errorf("Catalog[%d] = %q, want %q", i, cfg.Catalog[i], want[i])
		}
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	_, err := LoadFile(writeConfigFile(t, `
timezone: Not/AZone
prompt_timeout: soon
daily_refresh: "25:99"
`))
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{
		"homeserver_url is required",
		"state_dir is required",
		"panel_room is required",
		"timezone",
		"prompt_timeout",
		"catalog must list at least one item",
		"leader_roles must list at least one role",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateRejectsBadRoomID(t *testing.T) {
	_, err := LoadFile(writeConfigFile(t, `
homeserver_url: http://localhost:6167
state_dir: /tmp/qm
panel_room: "not-a-room-id"
catalog: [Wood]
leader_roles: [Officer]
`))
	if err == nil || !strings.Contains(err.Error(), "panel_room") {
		t.Fatalf("expected panel_room error, got %v", err)
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("QUARTERMASTER_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when QUARTERMASTER_CONFIG is unset")
	}

	t.Setenv("QUARTERMASTER_CONFIG", writeConfigFile(t, validConfig))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateDir != "/var/lib/quartermaster" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
}

func TestRefreshSchedule(t *testing.T) {
	cfg, err := LoadFile(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	daily := cfg.RefreshSchedule()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, cfg.Location())
	next := daily.Next(now)
	if next.Hour() != 8 || next.Minute() != 0 {
		t.Errorf("Next = %v, want 08:00 wall clock", next)
	}
	if !next.After(now) {
		t.Errorf("Next = %v, want after %v", next, now)
	}
}

func TestLoadSession(t *testing.T) {
	stateDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSession(stateDir); err == nil {
			t.Fatal("expected error for missing session.json")
		}
	})

	t.Run("valid", func(t *testing.T) {
		content := `{"user_id": "@quartermaster:example.org", "access_token": "syt_secret"}`
		if err := os.WriteFile(filepath.Join(stateDir, "session.json"), []byte(content), 0o600); err != nil {
			t.Fatalf("writing session.json: %v", err)
		}

		credentials, err := LoadSession(stateDir)
		if err != nil {
			t.Fatalf("LoadSession: %v", err)
		}
		if credentials.UserID.String() != "@quartermaster:example.org" {
			t.Errorf("UserID = %q", credentials.UserID)
		}
		if credentials.AccessToken != "syt_secret" {
			t.Errorf("AccessToken = %q", credentials.AccessToken)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		content := `{"user_id": "@quartermaster:example.org"}`
		if err := os.WriteFile(filepath.Join(stateDir, "session.json"), []byte(content), 0o600); err != nil {
			t.Fatalf("writing session.json: %v", err)
		}
		if _, err := LoadSession(stateDir); err == nil {
			t.Fatal("expected error for missing access_token")
		}
	})
}
