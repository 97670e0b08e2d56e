package mint

import (
	"sync"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// validStartSkew backdates valid starts so a node with a slightly slower clock does not
// reject the transaction as starting in the future.
const validStartSkew = 5 * time.Second

// TxContext holds the transaction ID, and therefore the validity window, of the next
// transaction to submit.
type TxContext struct {
	mu         sync.Mutex
	payer      hedera.AccountID
	window     time.Duration
	clock      func() time.Time
	validStart time.Time
	id         hedera.TransactionID
}

// NewTxContext returns a context whose first transaction ID is generated from clock.
// A non-positive window selects DefaultValidityWindow.
func NewTxContext(payer hedera.AccountID, window time.Duration, clock func() time.Time) *TxContext {
	if window <= 0 || window > MaxValidDuration {
		window = DefaultValidityWindow
	}
	if clock == nil {
		clock = time.Now
	}
	txContext := &TxContext{
		payer:  payer,
		window: window,
		clock:  clock,
	}
	txContext.Refresh(clock())
	return txContext
}

// Stale reports whether a transaction using the current ID would be outside its
// validity window at now.
func (c *TxContext) Stale(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.validStart) >= c.window
}

// Refresh replaces the transaction ID with one valid from now.
func (c *TxContext) Refresh(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	validStart := now.Add(-validStartSkew)
	// Two refreshes at the same instant must still yield distinct IDs.
	if !c.validStart.IsZero() && !validStart.After(c.validStart) {
		validStart = c.validStart.Add(time.Nanosecond)
	}
	c.validStart = validStart
	c.id = hedera.NewTransactionIDWithValidStart(c.payer, c.validStart)
}

func (c *TxContext) RefreshIfStale(now time.Time) bool {
	if !c.Stale(now) {
		return false
	}
	c.Refresh(now)
	return true
}

func (c *TxContext) TransactionID() hedera.TransactionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *TxContext) ValidStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validStart
}

func (c *TxContext) Payer() hedera.AccountID {
	return c.payer
}
