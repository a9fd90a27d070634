package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/storage"
)

// History remarks recorded by the workflow.
const (
	RemarkSubmitted         = "Application submitted by retailer."
	RemarkInsufficientFunds = "Application submitted with failed wallet payment due to insufficient funds."
	RemarkNoWallet          = "Application submitted with failed wallet payment, no wallet found."
	RemarkWalletBusy        = "Application submitted with failed wallet payment, the wallet was busy. Retry the payment."
	RemarkOrderFailed       = "Application submitted, payment order could not be created."
	RemarkRetryWallet       = "Payment completed from wallet on retry."
	RemarkRetryFailed       = "Wallet payment retry failed due to insufficient funds."
	RemarkRetryOnline       = "New online payment order created."
	RemarkReUploaded        = "Retailer re-uploaded the required documents."
	fileFieldType           = "file"
	submissionReceiptPrefix = "sub_"
	retryReceiptPrefix      = "retry_"
	maxReceiptLength        = 40
	purchaseReason          = "service purchase"
	retryPurchaseReason     = "service purchase retry"
)

// CreateInput is a retailer's application for an option.
type CreateInput struct {
	RetailerID    string
	OptionID      string
	Data          map[string]string
	Files         []models.FileRef
	PaymentMethod models.PaymentMethod
}

// Result is the outcome of a create or a payment retry. PaymentFailed is set
// when the submission was stored but could not be paid.
type Result struct {
	Submission    *models.Submission
	Transaction   *models.Transaction
	Order         *payment.Order
	PaymentFailed bool
	Message       string
}

func receipt(prefix, id string) string {
	r := prefix + strings.ReplaceAll(id, "-", "")
	if len(r) > maxReceiptLength {
		r = r[:maxReceiptLength]
	}
	return r
}

// checkForm enforces the option's required fields and returns sanitized form data.
func (w *Workflow) checkForm(option *models.Option, data map[string]string, files []models.FileRef) (map[string]string, error) {
	clean := make(map[string]string, len(data))
	for k, v := range data {
		clean[k] = w.sanitize(v)
	}

	uploaded := make(map[string]bool, len(files))
	for _, f := range files {
		uploaded[f.Field] = true
	}

	var missing []string
	for _, field := range option.FormFields {
		if !field.Required {
			continue
		}
		if field.Type == fileFieldType {
			if !uploaded[field.Name] {
				missing = append(missing, field.Name)
			}
			continue
		}
		if clean[field.Name] == "" {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("required fields are missing", strings.Join(missing, ", "))
	}
	return clean, nil
}

// Create stores a new submission and attempts its payment. A failed wallet
// payment or a failed order creation still stores the submission, with
// PaymentFailed set so the caller can prompt a retry.
func (w *Workflow) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if in.RetailerID == "" {
		return nil, apperr.Unauthorized("retailer is required")
	}
	if in.OptionID == "" {
		return nil, apperr.Validation("option is required")
	}
	if !in.PaymentMethod.Valid() {
		return nil, apperr.Validation("invalid payment method", string(in.PaymentMethod))
	}
	for _, f := range in.Files {
		if f.URL == "" {
			return nil, apperr.Validation("file reference without URL", f.Field)
		}
	}

	option, err := w.catalog.GetOption(ctx, in.OptionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("option not found").Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get option: %w", err)
	}
	if !option.IsActive {
		return nil, apperr.Validation("option is not available")
	}
	data, err := w.checkForm(option, in.Data, in.Files)
	if err != nil {
		return nil, err
	}

	now := w.now().UTC()
	sub := &models.Submission{
		Id:            w.newID(),
		RetailerId:    in.RetailerID,
		ServiceId:     option.ServiceId,
		SubServiceId:  option.SubServiceId,
		OptionId:      option.OptionId,
		Data:          data,
		Files:         in.Files,
		Amount:        option.Price,
		Currency:      w.currency,
		PaymentMethod: in.PaymentMethod,
		Status:        models.StatusSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	switch {
	case sub.Amount == 0:
		return w.createFree(ctx, sub)
	case in.PaymentMethod == models.PayByWallet:
		return w.createWithWallet(ctx, sub)
	default:
		return w.createOnline(ctx, sub)
	}
}

func (w *Workflow) save(ctx context.Context, sub *models.Submission, order *models.PaymentOrder) error {
	if err := w.store.CreateSubmission(ctx, sub, order); err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (w *Workflow) createFree(ctx context.Context, sub *models.Submission) (*Result, error) {
	sub.PaymentStatus = models.PaymentPaid
	sub.StatusHistory = []models.StatusEntry{w.entry(models.StatusSubmitted, models.PaymentPaid, RemarkSubmitted, sub.RetailerId)}
	if err := w.save(ctx, sub, nil); err != nil {
		return nil, err
	}
	return &Result{Submission: sub}, nil
}

func (w *Workflow) createWithWallet(ctx context.Context, sub *models.Submission) (*Result, error) {
	sub.PaymentStatus = models.PaymentPaid
	sub.StatusHistory = []models.StatusEntry{w.entry(models.StatusSubmitted, models.PaymentPaid, RemarkSubmitted, sub.RetailerId)}

	entry := storage.Entry{
		WalletID:  sub.RetailerId,
		Direction: models.Debit,
		Amount:    sub.Amount,
		Meta: map[string]string{
			models.MetaReason:       purchaseReason,
			models.MetaOptionID:     sub.OptionId,
			models.MetaSubmissionID: sub.Id,
		},
	}
	tx, err := w.ledger.Post(ctx, entry, func(ctx context.Context, e storage.Entry) (*models.Transaction, error) {
		return w.store.CreateSubmissionWithDebit(ctx, sub, e)
	})
	if err == nil {
		w.logger.InfoContext(ctx, "submission created and paid from wallet", "submission_id", sub.Id, "amount", sub.Amount)
		return &Result{Submission: sub, Transaction: tx}, nil
	}

	remark, message := "", ""
	switch {
	case errors.Is(err, apperr.ErrInsufficientFunds):
		remark, message = RemarkInsufficientFunds, "Insufficient wallet balance. Submission created with failed payment status."
	case apperr.IsKind(err, apperr.KindNotFound):
		remark, message = RemarkNoWallet, "No wallet found. Submission created with failed payment status."
	case errors.Is(err, apperr.ErrConcurrentUpdate):
		remark, message = RemarkWalletBusy, "Wallet payment could not be completed. Submission created with failed payment status."
	default:
		return nil, err
	}

	// The application is kept so the retailer can pay later.
	sub.PaymentStatus = models.PaymentFailed
	sub.StatusHistory = []models.StatusEntry{w.entry(models.StatusSubmitted, models.PaymentFailed, remark, sub.RetailerId)}
	if err := w.save(ctx, sub, nil); err != nil {
		return nil, err
	}
	w.logger.InfoContext(ctx, "submission created with failed wallet payment", "submission_id", sub.Id, "amount", sub.Amount, "reason", remark)
	return &Result{
		Submission:    sub,
		PaymentFailed: true,
		Message:       message,
	}, nil
}

func (w *Workflow) createOnline(ctx context.Context, sub *models.Submission) (*Result, error) {
	rcpt := receipt(submissionReceiptPrefix, sub.Id)
	order, err := w.gateway.CreateOrder(ctx, sub.Amount, sub.Currency, rcpt)
	if err != nil {
		w.logger.ErrorContext(ctx, "payment order creation failed", "submission_id", sub.Id, "error", err)
		sub.PaymentStatus = models.PaymentFailed
		sub.StatusHistory = []models.StatusEntry{w.entry(models.StatusSubmitted, models.PaymentFailed, RemarkOrderFailed, sub.RetailerId)}
		if err := w.save(ctx, sub, nil); err != nil {
			return nil, err
		}
		return &Result{
			Submission:    sub,
			PaymentFailed: true,
			Message:       "Payment order could not be created. Submission created with failed payment status.",
		}, nil
	}

	sub.PaymentStatus = models.PaymentPending
	sub.OrderId = order.ID
	sub.StatusHistory = []models.StatusEntry{w.entry(models.StatusSubmitted, models.PaymentPending, RemarkSubmitted, sub.RetailerId)}
	if err := w.save(ctx, sub, w.paymentOrder(sub, order, rcpt)); err != nil {
		return nil, err
	}
	return &Result{Submission: sub, Order: order}, nil
}

func (w *Workflow) paymentOrder(sub *models.Submission, order *payment.Order, rcpt string) *models.PaymentOrder {
	now := w.now().UTC()
	return &models.PaymentOrder{
		OrderId:      order.ID,
		Kind:         models.OrderForSubmission,
		SubmissionId: sub.Id,
		UserId:       sub.RetailerId,
		Amount:       sub.Amount,
		Currency:     sub.Currency,
		Receipt:      rcpt,
		Status:       models.OrderCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
