// Package memory is an in-process implementation of the storage interfaces. It
// applies the same conditional-write rules as the DynamoDB store under a single
// mutex and backs local runs and service tests.
package memory

import (
	"sync"
	"time"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// Store implements the Storage interface in memory.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	challenges  map[string]models.OtpChallenge
	wallets     map[string]models.Wallet
	txs         map[string][]models.Transaction
	submissions map[string]models.Submission
	orders      map[string]models.PaymentOrder
	users       map[string]models.User
	options     map[string]models.Option
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp created records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now:         time.Now,
		challenges:  make(map[string]models.OtpChallenge),
		wallets:     make(map[string]models.Wallet),
		txs:         make(map[string][]models.Transaction),
		submissions: make(map[string]models.Submission),
		orders:      make(map[string]models.PaymentOrder),
		users:       make(map[string]models.User),
		options:     make(map[string]models.Option),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
