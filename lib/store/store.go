// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/quartermaster/lib/ref"
)

const (
	inventoryFile = "inventory.json"
	bankFile      = "bank.json"
	panelIDFile   = "panel_message_id"
)

// Store reads and writes the ledger documents in a single directory.
// It performs no locking: correctness relies on the single-writer
// execution model (the ledger engine serializes mutations).
type Store struct {
	directory string
	logger    *slog.Logger
}

// New creates a Store rooted at directory. The directory is created
// if it does not exist.
func New(directory string, logger *slog.Logger) (*Store, error) {
	if directory == "" {
		return nil, fmt.Errorf("store: directory is required")
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("store: creating directory %s: %w", directory, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{directory: directory, logger: logger}, nil
}

// LoadInventory returns the inventory mapping with every catalog item
// present (missing items default to zero) and all non-catalog keys
// dropped. A missing or unreadable document reinitializes all
// quantities to zero with a logged warning — never an error.
func (s *Store) LoadInventory(catalog []string) map[string]int {
	inventory := make(map[string]int, len(catalog))
	for _, item := range catalog {
		inventory[item] = 0
	}

	path := filepath.Join(s.directory, inventoryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("inventory document unreadable, reinitializing", "path", path, "error", err)
		}
		return inventory
	}

	var loaded map[string]int
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("inventory document corrupt, reinitializing", "path", path, "error", err)
		return inventory
	}

	for item, quantity := range loaded {
		if _, known := inventory[item]; known && quantity >= 0 {
			inventory[item] = quantity
		}
	}
	return inventory
}

// SaveInventory writes the full inventory mapping synchronously.
func (s *Store) SaveInventory(inventory map[string]int) error {
	return s.writeDocument(inventoryFile, inventory)
}

// LoadBank returns the bank document. Missing or corrupt documents
// reinitialize to a zero balance and an empty log with a logged
// warning. A negative persisted balance is treated as corruption.
func (s *Store) LoadBank() BankDocument {
	path := filepath.Join(s.directory, bankFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("bank document unreadable, reinitializing", "path", path, "error", err)
		}
		return BankDocument{}
	}

	var bank BankDocument
	if err := json.Unmarshal(data, &bank); err != nil {
		s.logger.Warn("bank document corrupt, reinitializing", "path", path, "error", err)
		return BankDocument{}
	}
	if bank.Balance < 0 {
		s.logger.Warn("bank document has negative balance, reinitializing", "path", path, "balance", bank.Balance)
		return BankDocument{}
	}
	return bank
}

// SaveBank writes the bank document synchronously.
func (s *Store) SaveBank(bank BankDocument) error {
	return s.writeDocument(bankFile, bank)
}

// LoadPanelID returns the persisted control panel identity, or the
// zero EventID when absent or unparsable. An unparsable identity is
// pruned so it is not retried on the next load.
func (s *Store) LoadPanelID() ref.EventID {
	path := filepath.Join(s.directory, panelIDFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return ref.EventID{}
	}

	eventID, err := ref.ParseEventID(strings.TrimSpace(string(data)))
	if err != nil {
		s.logger.Warn("panel identity file invalid, discarding", "path", path, "error", err)
		if err := s.ClearPanelID(); err != nil {
			s.logger.Warn("failed to remove invalid panel identity", "path", path, "error", err)
		}
		return ref.EventID{}
	}
	return eventID
}

// SavePanelID persists the control panel identity as a bare string.
func (s *Store) SavePanelID(eventID ref.EventID) error {
	if eventID.IsZero() {
		return fmt.Errorf("store: refusing to persist zero panel identity")
	}
	return s.atomicWrite(panelIDFile, []byte(eventID.String()+"\n"))
}

// ClearPanelID removes the persisted control panel identity. Removing
// an already-absent identity is not an error.
func (s *Store) ClearPanelID() error {
	path := filepath.Join(s.directory, panelIDFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: removing panel identity: %w", err)
	}
	return nil
}

// writeDocument serializes v as indented JSON with HTML escaping
// disabled (catalog names are Thai and must round-trip exactly) and
// writes it atomically.
func (s *Store) writeDocument(name string, v any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("store: encoding %s: %w", name, err)
	}
	return s.atomicWrite(name, buffer.Bytes())
}

// atomicWrite writes data to a temp file in the store directory and
// renames it into place, so a crash mid-write never leaves a
// truncated document behind.
func (s *Store) atomicWrite(name string, data []byte) error {
	path := filepath.Join(s.directory, name)
	temp, err := os.CreateTemp(s.directory, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: creating temp file for %s: %w", name, err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("store: writing %s: %w", name, err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("store: closing %s: %w", name, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("store: replacing %s: %w", name, err)
	}
	return nil
}
