package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

const staleOrdersIndex = "status-created_at-index"

func orderKey(orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"order_id": str(orderID)}
}

func (s *Store) orderPut(order *models.PaymentOrder) (*types.Put, error) {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment order: %w", err)
	}
	return &types.Put{
		TableName:           aws.String(s.Tables.Orders),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(order_id)"),
	}, nil
}

// CreateOrder stores a new payment order.
func (s *Store) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	put, err := s.orderPut(order)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           put.TableName,
		Item:                put.Item,
		ConditionExpression: put.ConditionExpression,
	})
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			return fmt.Errorf("payment order %s already exists: %w", order.OrderId, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create payment order in DynamoDB: %w", err)
	}
	return nil
}

// GetOrder retrieves a payment order by the gateway's order ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Orders),
		Key:            orderKey(orderID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("payment order %s not found: %w", orderID, storage.ErrNotFound)
	}

	var order models.PaymentOrder
	if err := attributevalue.UnmarshalMap(result.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment order: %w", err)
	}
	return &order, nil
}

// ListStaleOrders returns orders still in the created state that are older than cutoff.
func (s *Store) ListStaleOrders(ctx context.Context, cutoff time.Time) ([]models.PaymentOrder, error) {
	cutoffAV, err := attributevalue.Marshal(cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Orders),
		IndexName:              aws.String(staleOrdersIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": str(string(models.OrderCreated)),
			":cutoff": cutoffAV,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale payment orders: %w", err)
	}

	var orders []models.PaymentOrder
	if err := attributevalue.UnmarshalListOfMaps(items, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment orders: %w", err)
	}
	return orders, nil
}

// orderTransition builds the write that moves an order out of the created
// state. Only one settlement can ever win it.
func (s *Store) orderTransition(order *models.PaymentOrder, to models.OrderStatus, paymentID string, now time.Time) (*types.Update, error) {
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	return &types.Update{
		TableName:           aws.String(s.Tables.Orders),
		Key:                 orderKey(order.OrderId),
		UpdateExpression:    aws.String("SET #status = :to, payment_id = :payment_id, updated_at = :now"),
		ConditionExpression: aws.String("#status = :created"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":         str(string(to)),
			":created":    str(string(models.OrderCreated)),
			":payment_id": str(paymentID),
			":now":        nowAV,
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}, nil
}

func orderFailure(orderID string, old map[string]types.AttributeValue) error {
	if len(old) == 0 {
		return fmt.Errorf("payment order %s not found: %w", orderID, storage.ErrNotFound)
	}
	return storage.ErrOrderProcessed
}

// SettleSubmissionOrder marks the order and its submission paid in one transaction.
func (s *Store) SettleSubmissionOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, entry models.StatusEntry) error {
	// 1. Move the order out of the created state.
	orderUpdate, err := s.orderTransition(order, models.OrderPaid, paymentID, entry.UpdatedAt)
	if err != nil {
		return err
	}

	// 2. Mark the submission paid unless something else already paid it.
	subUpdate, err := s.paymentUpdate(order.SubmissionId, storage.PaymentUpdate{
		Method:  models.PayOnline,
		Status:  models.PaymentPaid,
		OrderID: order.OrderId,
		Entry:   entry,
	})
	if err != nil {
		return err
	}

	// 3. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{{Update: orderUpdate}, {Update: subUpdate}},
	})
	if err != nil {
		reasons := cancellationReasons(err)
		switch {
		case conditionFailed(reasons, 0):
			return orderFailure(order.OrderId, reasons[0].Item)
		case conditionFailed(reasons, 1):
			return paymentFailure(order.SubmissionId, reasons[1].Item)
		}
		return fmt.Errorf("failed to execute order settlement: %w", err)
	}
	return nil
}

// SettleTopUpOrder marks the order paid and credits the wallet in one transaction.
func (s *Store) SettleTopUpOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, e storage.Entry) (*models.Transaction, error) {
	now := s.now()
	tx, items, err := s.entryItems(e, now)
	if err != nil {
		return nil, err
	}
	orderUpdate, err := s.orderTransition(order, models.OrderPaid, paymentID, now)
	if err != nil {
		return nil, err
	}
	items = append(items, types.TransactWriteItem{Update: orderUpdate})

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		reasons := cancellationReasons(err)
		switch {
		case conditionFailed(reasons, 2):
			return nil, orderFailure(order.OrderId, reasons[2].Item)
		case conditionFailed(reasons, 0):
			return nil, entryFailure(reasons[0], e)
		}
		return nil, fmt.Errorf("failed to execute top-up settlement: %w", err)
	}
	return tx, nil
}

// MarkOrderUnapplied flags a paid order that found its target already settled.
func (s *Store) MarkOrderUnapplied(ctx context.Context, order *models.PaymentOrder, paymentID string) error {
	update, err := s.orderTransition(order, models.OrderUnapplied, paymentID, s.now())
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           update.TableName,
		Key:                                 update.Key,
		UpdateExpression:                    update.UpdateExpression,
		ConditionExpression:                 update.ConditionExpression,
		ExpressionAttributeNames:            update.ExpressionAttributeNames,
		ExpressionAttributeValues:           update.ExpressionAttributeValues,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if old, ok := conditionalCheckItem(err); ok {
			return orderFailure(order.OrderId, old)
		}
		return fmt.Errorf("failed to mark payment order unapplied: %w", err)
	}
	return nil
}
