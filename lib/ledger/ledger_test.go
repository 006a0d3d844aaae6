// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/store"
)

var (
	testActor = ref.MustParseUserID("@alice:example.org")
	testEpoch = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func testLedger(t *testing.T, catalog ...string) *Ledger {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := store.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	l, err := New(Config{
		Store:    s,
		Catalog:  catalog,
		Location: time.UTC,
		Clock:    clock.Fake(testEpoch),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return l
}

func TestNewValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := store.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}

	if _, err := New(Config{Catalog: []string{"Wood"}, Location: time.UTC}); err == nil {
		t.Error("New without store succeeded")
	}
	if _, err := New(Config{Store: s, Location: time.UTC}); err == nil {
		t.Error("New with empty catalog succeeded")
	}
	if _, err := New(Config{Store: s, Catalog: []string{"Wood"}}); err == nil {
		t.Error("New without location succeeded")
	}
}

func TestCatalogNormalized(t *testing.T) {
	l := testLedger(t, "Wood", "Stone", "Wood", "", "Ammo")
	catalog := l.Catalog()
	want := []string{"Ammo", "Stone", "Wood"}
	if len(catalog) != len(want) {
		t.Fatalf("catalog = %v, want %v", catalog, want)
	}
	for i := range want {
		if catalog[i] != want[i] {
			t.Fatalf("catalog = %v, want %v", catalog, want)
		}
	}
}

func TestInventoryScenario(t *testing.T) {
	// Catalog {Wood, Stone}: deposit Wood×10, overdraw fails
	// unchanged, then withdraw Wood×10 back to zero.
	l := testLedger(t, "Wood", "Stone")

	result, err := l.ApplyInventory("Wood", 10, store.ActionDeposit)
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if result.Remaining != 10 {
		t.Errorf("remaining = %d, want 10", result.Remaining)
	}

	inventory, _ := l.Snapshot()
	if inventory["Wood"] != 10 || inventory["Stone"] != 0 {
		t.Errorf("inventory = %v, want Wood:10 Stone:0", inventory)
	}

	result, err = l.ApplyInventory("Wood", 15, store.ActionWithdraw)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("overdraw error = %v, want ErrInsufficientStock", err)
	}
	if result.Remaining != 10 {
		t.Errorf("overdraw context remaining = %d, want 10", result.Remaining)
	}
	inventory, _ = l.Snapshot()
	if inventory["Wood"] != 10 {
		t.Errorf("overdraw mutated inventory: %v", inventory)
	}

	result, err = l.ApplyInventory("Wood", 10, store.ActionWithdraw)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if result.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", result.Remaining)
	}
	inventory, _ = l.Snapshot()
	if inventory["Wood"] != 0 || inventory["Stone"] != 0 {
		t.Errorf("inventory = %v, want all zero", inventory)
	}
}

func TestInventoryValidation(t *testing.T) {
	l := testLedger(t, "Wood")

	cases := []struct {
		name     string
		item     string
		quantity int
		action   store.Action
		want     error
	}{
		{"unknown item", "Gold", 1, store.ActionDeposit, ErrUnknownItem},
		{"zero quantity", "Wood", 0, store.ActionDeposit, ErrNonPositive},
		{"negative quantity", "Wood", -5, store.ActionWithdraw, ErrNonPositive},
		{"unknown action", "Wood", 1, store.Action("transfer"), ErrUnknownAction},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := l.ApplyInventory(c.item, c.quantity, c.action)
			if !errors.Is(err, c.want) {
				t.Errorf("error = %v, want %v", err, c.want)
			}
			if !IsValidationError(err) {
				t.Errorf("IsValidationError(%v) = false", err)
			}
		})
	}

	inventory, _ := l.Snapshot()
	if inventory["Wood"] != 0 {
		t.Errorf("validation failures mutated inventory: %v", inventory)
	}
}

func TestBankScenario(t *testing.T) {
	// Balance 0: deposit 500, overdraw 600 fails with no record,
	// balance and log unchanged.
	l := testLedger(t, "Wood")

	result, err := l.ApplyBank(500, store.ActionDeposit, testActor, "Alice", "initial")
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if result.Balance != 500 {
		t.Errorf("balance = %d, want 500", result.Balance)
	}
	if result.Record == nil {
		t.Fatal("deposit produced no record")
	}
	if result.Record.BalanceBefore != 0 || result.Record.BalanceAfter != 500 {
		t.Errorf("record balances = %d/%d, want 0/500",
			result.Record.BalanceBefore, result.Record.BalanceAfter)
	}
	if !result.Record.Timestamp.Equal(testEpoch) {
		t.Errorf("record timestamp = %v, want %v", result.Record.Timestamp, testEpoch)
	}

	result, err = l.ApplyBank(600, store.ActionWithdraw, testActor, "Alice", "supplies")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw error = %v, want ErrInsufficientFunds", err)
	}
	if result.Balance != 500 {
		t.Errorf("overdraw context balance = %d, want 500", result.Balance)
	}
	if result.Record != nil {
		t.Error("failed withdrawal produced a record")
	}

	_, bank := l.Snapshot()
	if bank.Balance != 500 {
		t.Errorf("balance after overdraw = %d, want 500", bank.Balance)
	}
	if len(bank.Log) != 1 {
		t.Errorf("log has %d entries after overdraw, want 1", len(bank.Log))
	}
}

func TestBankWithdrawRequiresReason(t *testing.T) {
	l := testLedger(t, "Wood")
	if _, err := l.ApplyBank(100, store.ActionDeposit, testActor, "Alice", ""); err != nil {
		t.Fatalf("deposit without reason failed: %v", err)
	}

	_, err := l.ApplyBank(50, store.ActionWithdraw, testActor, "Alice", "")
	if !errors.Is(err, ErrMissingReason) {
		t.Fatalf("error = %v, want ErrMissingReason", err)
	}
	_, bank := l.Snapshot()
	if bank.Balance != 100 || len(bank.Log) != 1 {
		t.Errorf("missing-reason withdrawal mutated state: %+v", bank)
	}
}

func TestBankLogTruncation(t *testing.T) {
	l := testLedger(t, "Wood")

	for i := 1; i <= 105; i++ {
		if _, err := l.ApplyBank(i, store.ActionDeposit, testActor, "Alice", ""); err != nil {
			t.Fatalf("deposit %d failed: %v", i, err)
		}
	}

	_, bank := l.Snapshot()
	if len(bank.Log) != 100 {
		t.Fatalf("log has %d entries, want 100", len(bank.Log))
	}
	// FIFO eviction: deposits 1-5 dropped, 6 oldest, 105 newest.
	if bank.Log[0].Amount != 6 {
		t.Errorf("oldest retained amount = %d, want 6", bank.Log[0].Amount)
	}
	if bank.Log[99].Amount != 105 {
		t.Errorf("newest retained amount = %d, want 105", bank.Log[99].Amount)
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	l := testLedger(t, "Wood")

	operations := []struct {
		amount int
		action store.Action
	}{
		{100, store.ActionDeposit},
		{40, store.ActionWithdraw},
		{70, store.ActionWithdraw}, // fails: only 60 left
		{60, store.ActionWithdraw},
		{1, store.ActionWithdraw}, // fails: empty
	}
	for _, op := range operations {
		l.ApplyBank(op.amount, op.action, testActor, "Alice", "test")
		_, bank := l.Snapshot()
		if bank.Balance < 0 {
			t.Fatalf("balance went negative: %d", bank.Balance)
		}
	}

	_, bank := l.Snapshot()
	if bank.Balance != 0 {
		t.Errorf("final balance = %d, want 0", bank.Balance)
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	directory := t.TempDir()
	s, err := store.New(directory, logger)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	catalog := []string{"ไม้", "หิน"}

	l, err := New(Config{Store: s, Catalog: catalog, Location: time.UTC, Clock: clock.Fake(testEpoch), Logger: logger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := l.ApplyInventory("ไม้", 12, store.ActionDeposit); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := l.ApplyBank(900, store.ActionDeposit, testActor, "Alice", "ขายของ"); err != nil {
		t.Fatalf("bank deposit failed: %v", err)
	}

	// Fresh engine over the same directory sees the durable state.
	restarted, err := New(Config{Store: s, Catalog: catalog, Location: time.UTC, Clock: clock.Fake(testEpoch), Logger: logger})
	if err != nil {
		t.Fatalf("New after restart failed: %v", err)
	}
	inventory, bank := restarted.Snapshot()
	if inventory["ไม้"] != 12 {
		t.Errorf("inventory after restart = %v", inventory)
	}
	if bank.Balance != 900 || len(bank.Log) != 1 || bank.Log[0].Reason != "ขายของ" {
		t.Errorf("bank after restart = %+v", bank)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := testLedger(t, "Wood")
	inventory, bank := l.Snapshot()
	inventory["Wood"] = 999
	bank.Balance = 999

	fresh, freshBank := l.Snapshot()
	if fresh["Wood"] != 0 || freshBank.Balance != 0 {
		t.Error("snapshot aliases the engine's state")
	}
}

func TestReload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	directory := t.TempDir()
	s, err := store.New(directory, logger)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	l, err := New(Config{Store: s, Catalog: []string{"Wood"}, Location: time.UTC, Clock: clock.Fake(testEpoch), Logger: logger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Simulate durable state written before this process's mirrors
	// were refreshed.
	if err := s.SaveInventory(map[string]int{"Wood": 77}); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	l.Reload()
	inventory, _ := l.Snapshot()
	if inventory["Wood"] != 77 {
		t.Errorf("inventory after reload = %v, want Wood:77", inventory)
	}
}
