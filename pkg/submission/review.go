package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// transitions lists the review moves an administrator may make. Re-applying
// the current non-terminal status is always allowed so remarks can be added.
var transitions = map[models.ReviewStatus][]models.ReviewStatus{
	models.StatusSubmitted:          {models.StatusPending, models.StatusReviewing, models.StatusDocumentRequired},
	models.StatusPending:            {models.StatusReviewing, models.StatusDocumentRequired},
	models.StatusReviewing:          {models.StatusDocumentRequired, models.StatusCompleted, models.StatusRejected},
	models.StatusDocumentRequired:   {},
	models.StatusDocumentReuploaded: {models.StatusReviewing},
}

// CanTransition reports whether an administrator may move from one review status to another.
func CanTransition(from, to models.ReviewStatus) bool {
	if from.Terminal() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus applies an administrator's review decision and records it in
// the history together with the remarks.
func (w *Workflow) UpdateStatus(ctx context.Context, adminID, id string, to models.ReviewStatus, remarks string) (*models.Submission, error) {
	if !to.Valid() {
		return nil, apperr.Validation("invalid status", string(to))
	}
	if to == models.StatusDocumentReuploaded {
		return nil, apperr.ErrInvalidTransition.WithDetails("only the retailer can re-upload documents")
	}
	remarks = w.sanitize(remarks)

	return w.changeStatus(ctx, id, func(sub *models.Submission) (storage.StatusChange, error) {
		if !CanTransition(sub.Status, to) {
			return storage.StatusChange{}, apperr.ErrInvalidTransition.WithDetails("%s to %s", sub.Status, to)
		}
		return storage.StatusChange{
			From:         sub.Status,
			To:           to,
			AdminRemarks: &remarks,
			Entry:        w.entry(to, "", remarks, adminID),
		}, nil
	})
}

// ReUpload attaches new documents from the retailer and moves the submission
// to Document Re-uploaded. Original attachments are kept.
func (w *Workflow) ReUpload(ctx context.Context, retailerID, id string, files []models.FileRef) (*models.Submission, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("at least one file is required")
	}
	for _, f := range files {
		if f.URL == "" {
			return nil, apperr.Validation("file reference without URL", f.Field)
		}
	}
	if _, err := w.GetForRetailer(ctx, retailerID, id); err != nil {
		return nil, err
	}

	return w.changeStatus(ctx, id, func(sub *models.Submission) (storage.StatusChange, error) {
		if sub.Status.Terminal() {
			return storage.StatusChange{}, apperr.ErrInvalidTransition.WithDetails("submission is %s", sub.Status)
		}
		return storage.StatusChange{
			From:       sub.Status,
			To:         models.StatusDocumentReuploaded,
			Entry:      w.entry(models.StatusDocumentReuploaded, "", RemarkReUploaded, retailerID),
			ReUploaded: files,
		}, nil
	})
}

// changeStatus re-reads the submission and re-plans the change whenever the
// stored status moved between the read and the write.
func (w *Workflow) changeStatus(ctx context.Context, id string, plan func(*models.Submission) (storage.StatusChange, error)) (*models.Submission, error) {
	for range maxStatusRetries {
		sub, err := w.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		change, err := plan(sub)
		if err != nil {
			return nil, err
		}

		updated, err := w.store.ChangeStatus(ctx, id, change)
		switch {
		case err == nil:
			w.logger.InfoContext(ctx, "submission status changed",
				"submission_id", id, "from", change.From, "to", change.To, "by", change.Entry.UpdatedBy)
			return updated, nil
		case errors.Is(err, storage.ErrVersionConflict):
			continue
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFound(err)
		default:
			return nil, fmt.Errorf("failed to change status: %w", err)
		}
	}
	return nil, apperr.ErrConcurrentUpdate
}
