// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/quartermaster/lib/service"
	"github.com/bureau-foundation/quartermaster/lib/store"
)

// statusResponse is the admin socket's "status" payload.
type statusResponse struct {
	Version      string `cbor:"version"`
	Room         string `cbor:"room"`
	UserID       string `cbor:"user_id"`
	PanelEventID string `cbor:"panel_event_id,omitempty"`
	CatalogItems int    `cbor:"catalog_items"`
	Balance      int    `cbor:"balance"`
	LogEntries   int    `cbor:"log_entries"`
}

// bankResponse is the admin socket's "bank" payload.
type bankResponse struct {
	Balance int                       `cbor:"balance"`
	Log     []store.TransactionRecord `cbor:"log"`
}

// registerAdminActions wires the local inspection protocol. The
// socket is trusted (filesystem permissions are the access control),
// so actions skip the role gate.
func (b *bot) registerAdminActions(server *service.SocketServer) {
	server.Handle("status", func(ctx context.Context, raw []byte) (any, error) {
		_, bank := b.ledger.Snapshot()
		return statusResponse{
			Version:      version,
			Room:         b.room.String(),
			UserID:       b.selfID.String(),
			PanelEventID: b.store.LoadPanelID().String(),
			CatalogItems: len(b.ledger.Catalog()),
			Balance:      bank.Balance,
			LogEntries:   len(bank.Log),
		}, nil
	})

	server.Handle("inventory", func(ctx context.Context, raw []byte) (any, error) {
		inventory, _ := b.ledger.Snapshot()
		return inventory, nil
	})

	server.Handle("bank", func(ctx context.Context, raw []byte) (any, error) {
		_, bank := b.ledger.Snapshot()
		return bankResponse{Balance: bank.Balance, Log: bank.Log}, nil
	})

	server.Handle("refresh-panel", func(ctx context.Context, raw []byte) (any, error) {
		if err := b.forceNewPanel(ctx); err != nil {
			return nil, fmt.Errorf("refreshing panel: %w", err)
		}
		return nil, nil
	})
}
