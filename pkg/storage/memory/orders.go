package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.OrderId]; ok {
		return fmt.Errorf("payment order %s: %w", order.OrderId, storage.ErrAlreadyExists)
	}
	s.orders[order.OrderId] = *order
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("payment order %s: %w", orderID, storage.ErrNotFound)
	}
	return &o, nil
}

func (s *Store) ListStaleOrders(ctx context.Context, cutoff time.Time) ([]models.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PaymentOrder
	for _, o := range s.orders {
		if o.Status == models.OrderCreated && o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

// pendingOrder returns the stored order if it still awaits confirmation.
func (s *Store) pendingOrder(orderID string) (models.PaymentOrder, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return models.PaymentOrder{}, fmt.Errorf("payment order %s: %w", orderID, storage.ErrNotFound)
	}
	if o.Status != models.OrderCreated {
		return models.PaymentOrder{}, storage.ErrOrderProcessed
	}
	return o, nil
}

func (s *Store) SettleSubmissionOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, entry models.StatusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.pendingOrder(order.OrderId)
	if err != nil {
		return err
	}
	sub, err := s.checkUnpaid(o.SubmissionId)
	if err != nil {
		return err
	}

	o.Status = models.OrderPaid
	o.PaymentId = paymentID
	o.UpdatedAt = entry.UpdatedAt
	s.orders[o.OrderId] = o
	s.submissions[sub.Id] = applyPayment(sub, storage.PaymentUpdate{
		Method:  models.PayOnline,
		Status:  models.PaymentPaid,
		OrderID: o.OrderId,
		Entry:   entry,
	})
	return nil
}

func (s *Store) SettleTopUpOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, e storage.Entry) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.pendingOrder(order.OrderId)
	if err != nil {
		return nil, err
	}
	if err := s.checkEntry(e); err != nil {
		return nil, err
	}
	tx := s.commitEntry(e)

	o.Status = models.OrderPaid
	o.PaymentId = paymentID
	o.UpdatedAt = tx.CreatedAt
	s.orders[o.OrderId] = o
	return tx, nil
}

func (s *Store) MarkOrderUnapplied(ctx context.Context, order *models.PaymentOrder, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.pendingOrder(order.OrderId)
	if err != nil {
		return err
	}
	o.Status = models.OrderUnapplied
	o.PaymentId = paymentID
	o.UpdatedAt = s.now()
	s.orders[o.OrderId] = o
	return nil
}
