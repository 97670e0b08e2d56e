package mint

import (
	"testing"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func TestTxContextStaleness(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	payer := hedera.AccountID{Account: 1001}
	txContext := NewTxContext(payer, 60*time.Second, func() time.Time { return start })

	initial := txContext.TransactionID()
	if initial.AccountID == nil || initial.AccountID.String() != "0.0.1001" {
		t.Fatalf("unexpected payer in transaction ID: %v", initial.AccountID)
	}
	if !initial.ValidStart.Equal(start.Add(-validStartSkew)) {
		t.Fatalf("unexpected valid start: %s", initial.ValidStart)
	}

	if txContext.Stale(start.Add(50 * time.Second)) {
		t.Fatal("context should still be fresh inside the window")
	}
	if !txContext.Stale(start.Add(55 * time.Second)) {
		t.Fatal("context should be stale once the window has elapsed")
	}

	if txContext.RefreshIfStale(start.Add(10 * time.Second)) {
		t.Fatal("fresh context must not be refreshed")
	}
	if txContext.TransactionID().String() != initial.String() {
		t.Fatal("transaction ID changed without refresh")
	}

	later := start.Add(5 * time.Minute)
	if !txContext.RefreshIfStale(later) {
		t.Fatal("stale context must be refreshed")
	}
	refreshed := txContext.TransactionID()
	if refreshed.String() == initial.String() {
		t.Fatal("refresh must produce a new transaction ID")
	}
	if !txContext.ValidStart().Equal(later.Add(-validStartSkew)) {
		t.Fatalf("unexpected valid start after refresh: %s", txContext.ValidStart())
	}
	if txContext.Stale(later) {
		t.Fatal("refreshed context must be fresh")
	}
}

func TestTxContextDefaultWindow(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	txContext := NewTxContext(hedera.AccountID{Account: 2}, 0, func() time.Time { return start })

	if txContext.Stale(start.Add(DefaultValidityWindow - validStartSkew - time.Second)) {
		t.Fatal("default window should cover this instant")
	}
	if !txContext.Stale(start.Add(DefaultValidityWindow)) {
		t.Fatal("default window should have elapsed")
	}

	oversized := NewTxContext(hedera.AccountID{Account: 2}, 10*time.Minute, func() time.Time { return start })
	if !oversized.Stale(start.Add(MaxValidDuration)) {
		t.Fatal("windows beyond the network maximum must fall back to the default")
	}
}

func TestTxContextRefreshAtSameInstantChangesID(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	txContext := NewTxContext(hedera.AccountID{Account: 3}, 0, func() time.Time { return now })
	first := txContext.TransactionID()

	txContext.Refresh(now)
	if txContext.TransactionID().String() == first.String() {
		t.Fatal("refresh at the same instant must produce a new transaction ID")
	}
}
