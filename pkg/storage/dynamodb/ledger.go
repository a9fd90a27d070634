package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/google/uuid"
)

// PostEntry applies a ledger entry: the conditional wallet update and the
// transaction insert commit together or not at all.
func (s *Store) PostEntry(ctx context.Context, e storage.Entry) (*models.Transaction, error) {
	tx, items, err := s.entryItems(e, s.now())
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "posting ledger entry", "wallet_id", e.WalletID, "direction", e.Direction, "amount", e.Amount, "seq", tx.Seq)

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if reasons := cancellationReasons(err); conditionFailed(reasons, 0) {
			return nil, entryFailure(reasons[0], e)
		}
		return nil, fmt.Errorf("failed to execute ledger transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns the wallet's transactions in sequence order.
func (s *Store) ListTransactions(ctx context.Context, walletID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		KeyConditionExpression: aws.String("wallet_id = :wallet_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wallet_id": str(walletID),
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	}

	items, err := s.queryAll(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for wallet %s: %w", walletID, err)
	}

	transactions := []models.Transaction{}
	if err := attributevalue.UnmarshalListOfMaps(items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return transactions, nil
}

// entryItems builds the two writes of a ledger entry: the wallet update first,
// then the transaction insert. Callers that add items append them after these.
func (s *Store) entryItems(e storage.Entry, now time.Time) (*models.Transaction, []types.TransactWriteItem, error) {
	tx := &models.Transaction{
		WalletId:  e.WalletID,
		Seq:       e.ExpectedVersion + 1,
		Id:        uuid.New().String(),
		Direction: e.Direction,
		Amount:    e.Amount,
		Meta:      e.Meta,
		CreatedAt: now,
	}
	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	update := &types.Update{
		TableName:           aws.String(s.Tables.Wallets),
		Key:                 walletKey(e.WalletID),
		UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount":  num(e.Amount),
			":version": num(e.ExpectedVersion),
			":inc":     num(1),
			":now":     nowAV,
		},
		// The old item tells a short balance apart from a lost race.
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
	if e.Direction == models.Debit {
		update.UpdateExpression = aws.String("SET balance = balance - :amount, version = version + :inc, updated_at = :now")
		update.ConditionExpression = aws.String("version = :version AND balance >= :amount")
	}

	items := []types.TransactWriteItem{
		{Update: update},
		{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Transactions),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(seq)"),
			},
		},
	}
	return tx, items, nil
}

// entryFailure maps a failed wallet condition to the matching storage error.
func entryFailure(reason types.CancellationReason, e storage.Entry) error {
	if len(reason.Item) == 0 {
		return fmt.Errorf("wallet for user ID %s not found: %w", e.WalletID, storage.ErrNotFound)
	}
	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(reason.Item, &wallet); err != nil {
		return fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	if e.Direction == models.Debit && wallet.Balance < e.Amount {
		return storage.ErrInsufficientFunds
	}
	return storage.ErrVersionConflict
}
