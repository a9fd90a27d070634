package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/chris/retailer-services/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder(kind models.OrderKind) *models.PaymentOrder {
	return &models.PaymentOrder{
		OrderId:      "order_1",
		Kind:         kind,
		SubmissionId: "sub-1",
		UserId:       "retailer-1",
		Amount:       500,
		Currency:     "INR",
		Status:       models.OrderCreated,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
}

func TestSettleSubmissionOrder(t *testing.T) {
	entry := models.StatusEntry{Status: models.StatusSubmitted, PaymentStatus: models.PaymentPaid, UpdatedAt: fixedNow}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2 &&
				*in.TransactItems[0].Update.TableName == "orders" &&
				*in.TransactItems[1].Update.TableName == "submissions"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(mockClient)
		err := store.SettleSubmissionOrder(context.Background(), testOrder(models.OrderForSubmission), "pay_1", entry)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Order Already Processed", func(t *testing.T) {
		paid := testOrder(models.OrderForSubmission)
		paid.Status = models.OrderPaid
		old, _ := attributevalue.MarshalMap(paid)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelled(2, 0, old))

		store := newTestStore(mockClient)
		err := store.SettleSubmissionOrder(context.Background(), testOrder(models.OrderForSubmission), "pay_1", entry)

		assert.ErrorIs(t, err, storage.ErrOrderProcessed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Submission Already Paid", func(t *testing.T) {
		old, _ := attributevalue.MarshalMap(testSubmission())
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelled(2, 1, old))

		store := newTestStore(mockClient)
		err := store.SettleSubmissionOrder(context.Background(), testOrder(models.OrderForSubmission), "pay_1", entry)

		assert.ErrorIs(t, err, storage.ErrAlreadyPaid)
		mockClient.AssertExpectations(t)
	})
}

func TestSettleTopUpOrder(t *testing.T) {
	entry := storage.Entry{WalletID: "retailer-1", Direction: models.Credit, Amount: 500, ExpectedVersion: 4}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3 && *in.TransactItems[2].Update.TableName == "orders"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(mockClient)
		tx, err := store.SettleTopUpOrder(context.Background(), testOrder(models.OrderForTopUp), "pay_1", entry)

		require.NoError(t, err)
		assert.Equal(t, models.Credit, tx.Direction)
		assert.Equal(t, int64(5), tx.Seq)
		mockClient.AssertExpectations(t)
	})

	t.Run("Order Already Processed", func(t *testing.T) {
		old, _ := attributevalue.MarshalMap(testOrder(models.OrderForTopUp))
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelled(3, 2, old))

		store := newTestStore(mockClient)
		_, err := store.SettleTopUpOrder(context.Background(), testOrder(models.OrderForTopUp), "pay_1", entry)

		assert.ErrorIs(t, err, storage.ErrOrderProcessed)
		mockClient.AssertExpectations(t)
	})
}

func TestListStaleOrders(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		item, _ := attributevalue.MarshalMap(testOrder(models.OrderForTopUp))
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == "status-created_at-index"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

		store := newTestStore(mockClient)
		orders, err := store.ListStaleOrders(context.Background(), fixedNow.Add(time.Hour))

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order_1", orders[0].OrderId)
		mockClient.AssertExpectations(t)
	})
}

func TestMarkOrderUnapplied(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := newTestStore(mockClient)
		err := store.MarkOrderUnapplied(context.Background(), testOrder(models.OrderForSubmission), "pay_1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateAccount(t *testing.T) {
	user := &models.User{UserId: "u-1", Mobile: "9876543210", Role: models.RoleRetailer, IsActive: true, CreatedAt: fixedNow}
	wallet := &models.Wallet{UserId: "u-1", Currency: "INR", CreatedAt: fixedNow}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(mockClient)
		assert.NoError(t, store.CreateAccount(context.Background(), user, wallet))
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelled(2, 0, nil))

		store := newTestStore(mockClient)
		err := store.CreateAccount(context.Background(), user, wallet)

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})
}
