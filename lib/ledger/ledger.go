// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/store"
)

// maxLogEntries bounds the bank transaction log. Once exceeded, the
// oldest entries are dropped.
const maxLogEntries = 100

// Config holds the dependencies for constructing a Ledger.
type Config struct {
	// Store is the persistence backend. Required.
	Store *store.Store

	// Catalog is the fixed set of known item names. Sorted and
	// deduplicated on construction. Required, non-empty.
	Catalog []string

	// Location is the zone for transaction record timestamps.
	// Required.
	Location *time.Location

	// Clock supplies record timestamps. If nil, clock.Real() is used.
	Clock clock.Clock

	// Logger is used for structured logging. If nil, slog.Default().
	Logger *slog.Logger
}

// Ledger owns the inventory and bank state. All mutations go through
// ApplyInventory and ApplyBank, which serialize on an internal mutex
// and persist synchronously on success.
type Ledger struct {
	store    *store.Store
	catalog  []string
	location *time.Location
	clock    clock.Clock
	logger   *slog.Logger

	mu        sync.Mutex
	inventory map[string]int
	bank      store.BankDocument
}

// New constructs a Ledger and loads both documents from the store.
// Missing or corrupt documents initialize to the empty state.
func New(config Config) (*Ledger, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("ledger: Store is required")
	}
	if len(config.Catalog) == 0 {
		return nil, fmt.Errorf("ledger: Catalog must not be empty")
	}
	if config.Location == nil {
		return nil, fmt.Errorf("ledger: Location is required")
	}

	catalog := normalizeCatalog(config.Catalog)

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Ledger{
		store:    config.Store,
		catalog:  catalog,
		location: config.Location,
		clock:    clk,
		logger:   logger,
	}
	l.inventory = config.Store.LoadInventory(catalog)
	l.bank = config.Store.LoadBank()
	return l, nil
}

// normalizeCatalog sorts and deduplicates item names.
func normalizeCatalog(items []string) []string {
	seen := make(map[string]bool, len(items))
	catalog := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		catalog = append(catalog, item)
	}
	sort.Strings(catalog)
	return catalog
}

// Catalog returns the sorted item names. The slice is a copy.
func (l *Ledger) Catalog() []string {
	catalog := make([]string, len(l.catalog))
	copy(catalog, l.catalog)
	return catalog
}

// KnownItem reports whether item is in the catalog.
func (l *Ledger) KnownItem(item string) bool {
	index := sort.SearchStrings(l.catalog, item)
	return index < len(l.catalog) && l.catalog[index] == item
}

// Snapshot returns copies of the current inventory and bank state for
// read-only use (rendering, status queries).
func (l *Ledger) Snapshot() (map[string]int, store.BankDocument) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inventory := make(map[string]int, len(l.inventory))
	for item, quantity := range l.inventory {
		inventory[item] = quantity
	}
	return inventory, l.bank.Clone()
}

// Reload refreshes the in-memory mirrors from the store. The panel
// reconciler calls this before rendering so the canonical panel
// reflects durable state.
func (l *Ledger) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inventory = l.store.LoadInventory(l.catalog)
	l.bank = l.store.LoadBank()
}

// ItemResult describes an inventory transaction attempt. On success,
// Remaining is the item's quantity after the mutation. On
// ErrInsufficientStock it is the unchanged current quantity, so
// callers can report "have N" context. Zero for validation errors.
type ItemResult struct {
	Item      string
	Quantity  int
	Action    store.Action
	Remaining int
}

// ApplyInventory validates and applies one inventory transaction.
// Deposits always succeed; withdrawals require sufficient stock. On
// success, the full inventory document is persisted synchronously.
// Failures mutate nothing and write nothing.
func (l *Ledger) ApplyInventory(item string, quantity int, action store.Action) (ItemResult, error) {
	result := ItemResult{Item: item, Quantity: quantity, Action: action}

	if !action.Valid() {
		return result, ErrUnknownAction
	}
	if quantity <= 0 {
		return result, ErrNonPositive
	}
	if !l.KnownItem(item) {
		return result, ErrUnknownItem
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.inventory[item]
	switch action {
	case store.ActionDeposit:
		l.inventory[item] = current + quantity
	case store.ActionWithdraw:
		if current < quantity {
			result.Remaining = current
			return result, ErrInsufficientStock
		}
		l.inventory[item] = current - quantity
	}
	result.Remaining = l.inventory[item]

	if err := l.store.SaveInventory(l.inventory); err != nil {
		// The mutation stands; the next successful save repairs
		// the document.
		l.logger.Error("inventory persistence failed", "item", item, "error", err)
	}
	return result, nil
}

// BankResult describes a bank transaction attempt. On success,
// Balance is the new balance and Record the appended log entry. On
// ErrInsufficientFunds, Balance is the unchanged current balance and
// Record is nil.
type BankResult struct {
	Amount  int
	Action  store.Action
	Balance int
	Record  *store.TransactionRecord
}

// ApplyBank validates and applies one bank transaction. Withdrawals
// require a reason and sufficient balance. On success a transaction
// record is appended (newest last), the log is truncated to the
// newest 100 entries, and the document is persisted synchronously.
// Failed attempts append no record and write nothing.
func (l *Ledger) ApplyBank(amount int, action store.Action, actor ref.UserID, actorName, reason string) (BankResult, error) {
	result := BankResult{Amount: amount, Action: action}

	if !action.Valid() {
		return result, ErrUnknownAction
	}
	if amount <= 0 {
		return result, ErrNonPositive
	}
	if action == store.ActionWithdraw && reason == "" {
		return result, ErrMissingReason
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.bank.Balance
	switch action {
	case store.ActionDeposit:
		l.bank.Balance = before + amount
	case store.ActionWithdraw:
		if before < amount {
			result.Balance = before
			return result, ErrInsufficientFunds
		}
		l.bank.Balance = before - amount
	}

	record := store.TransactionRecord{
		Timestamp:     l.clock.Now().In(l.location),
		UserID:        actor,
		UserName:      actorName,
		Action:        action,
		Amount:        amount,
		Reason:        reason,
		BalanceBefore: before,
		BalanceAfter:  l.bank.Balance,
	}
	l.bank.Log = append(l.bank.Log, record)
	if len(l.bank.Log) > maxLogEntries {
		l.bank.Log = l.bank.Log[len(l.bank.Log)-maxLogEntries:]
	}

	result.Balance = l.bank.Balance
	result.Record = &record

	if err := l.store.SaveBank(l.bank); err != nil {
		l.logger.Error("bank persistence failed", "action", action, "amount", amount, "error", err)
	}
	return result, nil
}
