package storage

import (
	"context"

	"github.com/chris/retailer-services/pkg/models"
)

// StatusChange moves a submission from one review status to another. The write
// only succeeds while the stored status still equals From.
type StatusChange struct {
	From         models.ReviewStatus
	To           models.ReviewStatus
	AdminRemarks *string
	Entry        models.StatusEntry
	ReUploaded   []models.FileRef
}

// PaymentUpdate records a payment event on a submission. The write only
// succeeds while the submission is not paid.
type PaymentUpdate struct {
	Method  models.PaymentMethod
	Status  models.PaymentStatus
	OrderID string
	Entry   models.StatusEntry
}

// SubmissionReader defines the interface for reading submissions.
type SubmissionReader interface {
	// GetSubmission retrieves a submission by its ID.
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// ListSubmissionsByRetailer returns a retailer's submissions, newest first.
	ListSubmissionsByRetailer(ctx context.Context, retailerID string) ([]models.Submission, error)

	// ListSubmissions returns all submissions, newest first.
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
}

// SubmissionStore defines the interface for creating and mutating submissions.
// History is only ever appended.
type SubmissionStore interface {
	SubmissionReader

	// CreateSubmission stores a new submission, together with its payment order when one is given.
	CreateSubmission(ctx context.Context, sub *models.Submission, order *models.PaymentOrder) error

	// CreateSubmissionWithDebit stores a paid submission and applies the wallet debit atomically.
	CreateSubmissionWithDebit(ctx context.Context, sub *models.Submission, e Entry) (*models.Transaction, error)

	// ChangeStatus applies a review transition and appends its history entry.
	ChangeStatus(ctx context.Context, id string, change StatusChange) (*models.Submission, error)

	// UpdatePayment records a payment event without moving money, storing the
	// new payment order when one is given. Fails with ErrAlreadyPaid.
	UpdatePayment(ctx context.Context, id string, upd PaymentUpdate, order *models.PaymentOrder) (*models.Submission, error)

	// PayWithDebit marks the submission paid and applies the wallet debit atomically.
	// Fails with ErrAlreadyPaid, ErrInsufficientFunds or ErrVersionConflict.
	PayWithDebit(ctx context.Context, id string, upd PaymentUpdate, e Entry) (*models.Transaction, error)
}
