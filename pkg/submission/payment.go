package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// RetryPayment pays for a submission whose payment failed or is still pending.
// A paid submission fails with apperr.ErrAlreadyPaid and moves no money. An
// online retry always creates a new gateway order.
func (w *Workflow) RetryPayment(ctx context.Context, retailerID, id string, method models.PaymentMethod) (*Result, error) {
	if !method.Valid() {
		return nil, apperr.Validation("invalid payment method", string(method))
	}
	sub, err := w.GetForRetailer(ctx, retailerID, id)
	if err != nil {
		return nil, err
	}
	if sub.PaymentStatus == models.PaymentPaid {
		return nil, apperr.ErrAlreadyPaid
	}

	if method == models.PayByWallet {
		return w.retryWithWallet(ctx, sub)
	}
	return w.retryOnline(ctx, sub)
}

func (w *Workflow) retryWithWallet(ctx context.Context, sub *models.Submission) (*Result, error) {
	upd := storage.PaymentUpdate{
		Method: models.PayByWallet,
		Status: models.PaymentPaid,
		Entry:  w.entry(sub.Status, models.PaymentPaid, RemarkRetryWallet, sub.RetailerId),
	}
	entry := storage.Entry{
		WalletID:  sub.RetailerId,
		Direction: models.Debit,
		Amount:    sub.Amount,
		Meta: map[string]string{
			models.MetaReason:       retryPurchaseReason,
			models.MetaOptionID:     sub.OptionId,
			models.MetaSubmissionID: sub.Id,
		},
	}

	tx, err := w.ledger.Post(ctx, entry, func(ctx context.Context, e storage.Entry) (*models.Transaction, error) {
		return w.store.PayWithDebit(ctx, sub.Id, upd, e)
	})
	if errors.Is(err, apperr.ErrInsufficientFunds) {
		failed := storage.PaymentUpdate{
			Method: models.PayByWallet,
			Status: models.PaymentFailed,
			Entry:  w.entry(sub.Status, models.PaymentFailed, RemarkRetryFailed, sub.RetailerId),
		}
		if _, uerr := w.store.UpdatePayment(ctx, sub.Id, failed, nil); uerr != nil && !errors.Is(uerr, storage.ErrAlreadyPaid) {
			w.logger.ErrorContext(ctx, "failed to record failed payment retry", "submission_id", sub.Id, "error", uerr)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	updated, err := w.Get(ctx, sub.Id)
	if err != nil {
		return nil, err
	}
	w.logger.InfoContext(ctx, "submission paid from wallet on retry", "submission_id", sub.Id, "amount", sub.Amount)
	return &Result{Submission: updated, Transaction: tx}, nil
}

func (w *Workflow) retryOnline(ctx context.Context, sub *models.Submission) (*Result, error) {
	rcpt := receipt(retryReceiptPrefix, sub.Id)
	order, err := w.gateway.CreateOrder(ctx, sub.Amount, sub.Currency, rcpt)
	if err != nil {
		return nil, apperr.Upstream("failed to create payment order", err)
	}

	upd := storage.PaymentUpdate{
		Method:  models.PayOnline,
		Status:  models.PaymentPending,
		OrderID: order.ID,
		Entry:   w.entry(sub.Status, models.PaymentPending, RemarkRetryOnline, sub.RetailerId),
	}
	updated, err := w.store.UpdatePayment(ctx, sub.Id, upd, w.paymentOrder(sub, order, rcpt))
	switch {
	case errors.Is(err, storage.ErrAlreadyPaid):
		return nil, err
	case errors.Is(err, storage.ErrNotFound):
		return nil, notFound(err)
	case err != nil:
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return &Result{Submission: updated, Order: order}, nil
}
