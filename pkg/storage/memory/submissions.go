package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

func cloneSubmission(sub models.Submission) models.Submission {
	out := sub
	if sub.Data != nil {
		out.Data = make(map[string]string, len(sub.Data))
		for k, v := range sub.Data {
			out.Data[k] = v
		}
	}
	out.Files = append([]models.FileRef{}, sub.Files...)
	out.StatusHistory = append([]models.StatusEntry{}, sub.StatusHistory...)
	out.ReUploadedFiles = append([]models.FileRef{}, sub.ReUploadedFiles...)
	return out
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, storage.ErrNotFound)
	}
	out := cloneSubmission(sub)
	return &out, nil
}

func (s *Store) ListSubmissionsByRetailer(ctx context.Context, retailerID string) ([]models.Submission, error) {
	return s.list(func(sub models.Submission) bool { return sub.RetailerId == retailerID }), nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	return s.list(func(models.Submission) bool { return true }), nil
}

func (s *Store) list(match func(models.Submission) bool) []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Submission{}
	for _, sub := range s.submissions {
		if match(sub) {
			out = append(out, cloneSubmission(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission, order *models.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[sub.Id]; ok {
		return fmt.Errorf("submission %s: %w", sub.Id, storage.ErrAlreadyExists)
	}
	if order != nil {
		if _, ok := s.orders[order.OrderId]; ok {
			return fmt.Errorf("payment order %s: %w", order.OrderId, storage.ErrAlreadyExists)
		}
		s.orders[order.OrderId] = *order
	}
	s.submissions[sub.Id] = cloneSubmission(*sub)
	return nil
}

func (s *Store) CreateSubmissionWithDebit(ctx context.Context, sub *models.Submission, e storage.Entry) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[sub.Id]; ok {
		return nil, fmt.Errorf("submission %s: %w", sub.Id, storage.ErrAlreadyExists)
	}
	if err := s.checkEntry(e); err != nil {
		return nil, err
	}
	tx := s.commitEntry(e)
	s.submissions[sub.Id] = cloneSubmission(*sub)
	return tx, nil
}

func (s *Store) ChangeStatus(ctx context.Context, id string, change storage.StatusChange) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, storage.ErrNotFound)
	}
	if sub.Status != change.From {
		return nil, storage.ErrVersionConflict
	}
	sub = cloneSubmission(sub)
	sub.Status = change.To
	if change.AdminRemarks != nil {
		sub.AdminRemarks = *change.AdminRemarks
	}
	sub.StatusHistory = append(sub.StatusHistory, change.Entry)
	sub.ReUploadedFiles = append(sub.ReUploadedFiles, change.ReUploaded...)
	sub.UpdatedAt = change.Entry.UpdatedAt
	s.submissions[id] = sub

	out := cloneSubmission(sub)
	return &out, nil
}

// checkUnpaid returns the stored submission if it can still accept a payment.
func (s *Store) checkUnpaid(id string) (models.Submission, error) {
	sub, ok := s.submissions[id]
	if !ok {
		return models.Submission{}, fmt.Errorf("submission %s: %w", id, storage.ErrNotFound)
	}
	if sub.PaymentStatus == models.PaymentPaid {
		return models.Submission{}, storage.ErrAlreadyPaid
	}
	return sub, nil
}

func applyPayment(sub models.Submission, upd storage.PaymentUpdate) models.Submission {
	sub = cloneSubmission(sub)
	sub.PaymentMethod = upd.Method
	sub.PaymentStatus = upd.Status
	if upd.OrderID != "" {
		sub.OrderId = upd.OrderID
	}
	sub.StatusHistory = append(sub.StatusHistory, upd.Entry)
	sub.UpdatedAt = upd.Entry.UpdatedAt
	return sub
}

func (s *Store) UpdatePayment(ctx context.Context, id string, upd storage.PaymentUpdate, order *models.PaymentOrder) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.checkUnpaid(id)
	if err != nil {
		return nil, err
	}
	if order != nil {
		if _, ok := s.orders[order.OrderId]; ok {
			return nil, fmt.Errorf("payment order %s: %w", order.OrderId, storage.ErrAlreadyExists)
		}
		s.orders[order.OrderId] = *order
	}
	sub = applyPayment(sub, upd)
	s.submissions[id] = sub

	out := cloneSubmission(sub)
	return &out, nil
}

func (s *Store) PayWithDebit(ctx context.Context, id string, upd storage.PaymentUpdate, e storage.Entry) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.checkUnpaid(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEntry(e); err != nil {
		return nil, err
	}
	tx := s.commitEntry(e)
	s.submissions[id] = applyPayment(sub, upd)
	return tx, nil
}
