package storage

import (
	"context"

	"github.com/chris/retailer-services/pkg/models"
)

// Entry is a balance change to apply to a wallet. ExpectedVersion is the wallet
// version the caller read; the write only succeeds if it is still current.
type Entry struct {
	WalletID        string
	Direction       models.Direction
	Amount          int64
	Meta            map[string]string
	ExpectedVersion int64
}

// LedgerStore applies ledger entries. Each entry updates the wallet balance and
// inserts the transaction record in a single atomic write.
type LedgerStore interface {
	WalletStore

	// PostEntry applies e. Debits fail with ErrInsufficientFunds when the balance
	// is short at the instant of the write; a stale ExpectedVersion fails with
	// ErrVersionConflict.
	PostEntry(ctx context.Context, e Entry) (*models.Transaction, error)

	// ListTransactions returns the wallet's transactions in sequence order.
	ListTransactions(ctx context.Context, walletID string) ([]models.Transaction, error)
}
