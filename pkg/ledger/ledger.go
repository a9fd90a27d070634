// Package ledger moves money in and out of wallets. Every balance change is a
// single conditional write that also inserts the transaction record, so the
// balance always equals the signed sum of the wallet's transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

const (
	// DefaultMaxRetries is how often a lost version race is retried.
	DefaultMaxRetries = 32
	// DefaultRetryInterval is the first pause after a lost race. Later
	// pauses grow exponentially with jitter up to DefaultMaxRetryInterval.
	DefaultRetryInterval    = 2 * time.Millisecond
	DefaultMaxRetryInterval = 100 * time.Millisecond
)

// DefaultCurrency is the currency of new wallets.
const DefaultCurrency = "INR"

// CommitFunc writes a prepared ledger entry, possibly together with other
// records. It must apply the entry atomically and report a stale
// ExpectedVersion as storage.ErrVersionConflict.
type CommitFunc func(ctx context.Context, e storage.Entry) (*models.Transaction, error)

// Ledger applies debits and credits with optimistic concurrency.
type Ledger struct {
	store            storage.LedgerStore
	maxRetries       int
	retryInterval    time.Duration
	maxRetryInterval time.Duration
	now              func() time.Time
	logger           *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMaxRetries sets how often a version conflict is retried.
func WithMaxRetries(n int) Option {
	return func(l *Ledger) {
		l.maxRetries = n
	}
}

// WithRetryInterval sets the first and the largest pause between retries.
func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(l *Ledger) {
		l.retryInterval = initial
		l.maxRetryInterval = maxInterval
	}
}

// WithClock sets the clock used to stamp new wallets.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a Ledger.
func New(store storage.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:            store,
		maxRetries:       DefaultMaxRetries,
		retryInterval:    DefaultRetryInterval,
		maxRetryInterval: DefaultMaxRetryInterval,
		now:              time.Now,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debit removes amount from the wallet. It fails with apperr.ErrInsufficientFunds,
// without changing anything, when the balance is short at the instant of the write.
func (l *Ledger) Debit(ctx context.Context, walletID string, amount int64, meta map[string]string) (*models.Transaction, error) {
	return l.Post(ctx, storage.Entry{WalletID: walletID, Direction: models.Debit, Amount: amount, Meta: meta}, l.store.PostEntry)
}

// Credit adds amount to the wallet.
func (l *Ledger) Credit(ctx context.Context, walletID string, amount int64, meta map[string]string) (*models.Transaction, error) {
	return l.Post(ctx, storage.Entry{WalletID: walletID, Direction: models.Credit, Amount: amount, Meta: meta}, l.store.PostEntry)
}

// Post applies e through commit. The wallet is read to learn its version, and a
// short balance fails fast; the write itself re-checks both conditions, and a
// lost race is retried against a fresh read after a jittered pause.
func (l *Ledger) Post(ctx context.Context, e storage.Entry, commit CommitFunc) (*models.Transaction, error) {
	if e.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if !e.Direction.Valid() {
		return nil, apperr.Validation("invalid direction", string(e.Direction))
	}

	retry := l.newBackOff()
	for attempt := 0; attempt < l.maxRetries; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, retry.NextBackOff()); err != nil {
				return nil, err
			}
		}

		wallet, err := l.Wallet(ctx, e.WalletID)
		if err != nil {
			return nil, err
		}
		if e.Direction == models.Debit && wallet.Balance < e.Amount {
			return nil, apperr.ErrInsufficientFunds
		}

		e.ExpectedVersion = wallet.Version
		tx, err := commit(ctx, e)
		switch {
		case err == nil:
			l.logger.InfoContext(ctx, "ledger entry posted",
				"wallet_id", e.WalletID, "direction", e.Direction, "amount", e.Amount, "seq", tx.Seq)
			return tx, nil
		case errors.Is(err, storage.ErrVersionConflict):
			l.logger.DebugContext(ctx, "ledger version conflict, retrying", "wallet_id", e.WalletID, "attempt", attempt+1)
			continue
		case errors.Is(err, storage.ErrInsufficientFunds):
			return nil, apperr.ErrInsufficientFunds
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperr.NotFound("wallet not found").Wrap(err)
		default:
			return nil, err
		}
	}

	l.logger.WarnContext(ctx, "ledger entry abandoned after repeated conflicts", "wallet_id", e.WalletID, "attempts", l.maxRetries)
	return nil, apperr.ErrConcurrentUpdate
}

func (l *Ledger) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.retryInterval
	b.MaxInterval = l.maxRetryInterval
	b.Reset()
	return b
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wallet returns the wallet, or a not-found error.
func (l *Ledger) Wallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet, err := l.store.GetWallet(ctx, walletID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("wallet not found").Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// Transactions returns the wallet's transactions in the order they were applied.
func (l *Ledger) Transactions(ctx context.Context, walletID string) ([]models.Transaction, error) {
	txs, err := l.store.ListTransactions(ctx, walletID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("wallet not found").Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// NewWallet builds the zero-balance wallet of a new account.
func (l *Ledger) NewWallet(userID string) *models.Wallet {
	now := l.now().UTC()
	return &models.Wallet{
		UserId:    userID,
		Currency:  DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OpenWallet creates a zero-balance wallet for an existing user.
func (l *Ledger) OpenWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := l.store.CreateWallet(ctx, l.NewWallet(userID))
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, apperr.Conflict("wallet_exists", "wallet already exists").Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}
