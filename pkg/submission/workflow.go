// Package submission runs retailer applications through payment and review.
//
// Payment status and review status are tracked independently: a submission is
// stored even when its payment fails, and the payment can be retried later
// without re-submitting the form. Every change appends to the status history.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/ledger"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// maxStatusRetries bounds how often a review change is re-evaluated after the
// status moved underneath it.
const maxStatusRetries = 3

// Ledger posts wallet entries through a caller-supplied commit.
type Ledger interface {
	Post(ctx context.Context, e storage.Entry, commit ledger.CommitFunc) (*models.Transaction, error)
}

// Workflow implements submission creation, payment and review.
type Workflow struct {
	store    storage.SubmissionStore
	catalog  storage.CatalogStore
	ledger   Ledger
	gateway  payment.Gateway
	policy   *bluemonday.Policy
	currency string
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock sets the clock used to stamp history entries.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// WithIDGenerator replaces the submission ID source.
func WithIDGenerator(newID func() string) Option {
	return func(w *Workflow) {
		w.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithCurrency sets the currency charged for options.
func WithCurrency(currency string) Option {
	return func(w *Workflow) {
		w.currency = currency
	}
}

// New creates a Workflow.
func New(store storage.SubmissionStore, catalog storage.CatalogStore, l Ledger, gateway payment.Gateway, opts ...Option) *Workflow {
	w := &Workflow{
		store:    store,
		catalog:  catalog,
		ledger:   l,
		gateway:  gateway,
		policy:   bluemonday.StrictPolicy(),
		currency: ledger.DefaultCurrency,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// sanitize strips markup from free text.
func (w *Workflow) sanitize(s string) string {
	return strings.TrimSpace(w.policy.Sanitize(s))
}

func (w *Workflow) entry(status models.ReviewStatus, payment models.PaymentStatus, remarks, actor string) models.StatusEntry {
	return models.StatusEntry{
		Status:        status,
		PaymentStatus: payment,
		Remarks:       remarks,
		UpdatedBy:     actor,
		UpdatedAt:     w.now().UTC(),
	}
}

func notFound(err error) error {
	return apperr.NotFound("submission not found").Wrap(err)
}

// Get returns any submission. Used by administrators.
func (w *Workflow) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := w.store.GetSubmission(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// GetForRetailer returns the submission only if retailerID owns it.
func (w *Workflow) GetForRetailer(ctx context.Context, retailerID, id string) (*models.Submission, error) {
	sub, err := w.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.RetailerId != retailerID {
		return nil, apperr.NotFound("submission not found")
	}
	return sub, nil
}

// ListForRetailer returns the retailer's submissions, newest first.
func (w *Workflow) ListForRetailer(ctx context.Context, retailerID string) ([]models.Submission, error) {
	subs, err := w.store.ListSubmissionsByRetailer(ctx, retailerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// List returns every submission, newest first.
func (w *Workflow) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := w.store.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
