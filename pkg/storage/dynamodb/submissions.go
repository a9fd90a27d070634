package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

const retailerSubmissionsIndex = "retailer_id-created_at-index"

func submissionKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": str(id)}
}

// submissionPut builds the insert of a new submission. List attributes are
// stored as empty lists so that list_append works on them later.
func (s *Store) submissionPut(sub *models.Submission) (*types.Put, error) {
	if sub.Files == nil {
		sub.Files = []models.FileRef{}
	}
	if sub.StatusHistory == nil {
		sub.StatusHistory = []models.StatusEntry{}
	}
	if sub.ReUploadedFiles == nil {
		sub.ReUploadedFiles = []models.FileRef{}
	}

	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}
	return &types.Put{
		TableName:           aws.String(s.Tables.Submissions),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}, nil
}

// CreateSubmission stores a new submission, with its payment order in the same
// transaction when there is one.
func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission, order *models.PaymentOrder) error {
	put, err := s.submissionPut(sub)
	if err != nil {
		return err
	}

	if order == nil {
		_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           put.TableName,
			Item:                put.Item,
			ConditionExpression: put.ConditionExpression,
		})
		if err != nil {
			if _, ok := conditionalCheckItem(err); ok {
				return fmt.Errorf("submission %s already exists: %w", sub.Id, storage.ErrAlreadyExists)
			}
			return fmt.Errorf("failed to create submission in DynamoDB: %w", err)
		}
		return nil
	}

	orderPut, err := s.orderPut(order)
	if err != nil {
		return err
	}
	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{{Put: put}, {Put: orderPut}},
	})
	if err != nil {
		if reasons := cancellationReasons(err); conditionFailed(reasons, 0) || conditionFailed(reasons, 1) {
			return fmt.Errorf("submission %s or order %s already exists: %w", sub.Id, order.OrderId, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create submission in DynamoDB: %w", err)
	}
	return nil
}

// CreateSubmissionWithDebit stores a paid submission together with the wallet debit.
func (s *Store) CreateSubmissionWithDebit(ctx context.Context, sub *models.Submission, e storage.Entry) (*models.Transaction, error) {
	// 1. Ledger writes come first so their cancellation reasons sit at known positions.
	tx, items, err := s.entryItems(e, s.now())
	if err != nil {
		return nil, err
	}

	// 2. The submission insert.
	put, err := s.submissionPut(sub)
	if err != nil {
		return nil, err
	}
	items = append(items, types.TransactWriteItem{Put: put})

	slog.Log(ctx, slog.LevelDebug, "creating paid submission", "submission_id", sub.Id, "wallet_id", e.WalletID, "amount", e.Amount)

	// 3. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		reasons := cancellationReasons(err)
		switch {
		case conditionFailed(reasons, 2):
			return nil, fmt.Errorf("submission %s already exists: %w", sub.Id, storage.ErrAlreadyExists)
		case conditionFailed(reasons, 0):
			return nil, entryFailure(reasons[0], e)
		}
		return nil, fmt.Errorf("failed to execute submission transaction: %w", err)
	}

	return tx, nil
}

// GetSubmission retrieves a submission by its ID.
func (s *Store) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Submissions),
		Key:            submissionKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get submission from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("submission %s not found: %w", id, storage.ErrNotFound)
	}

	var sub models.Submission
	if err := attributevalue.UnmarshalMap(result.Item, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissionsByRetailer queries the retailer index, newest first.
func (s *Store) ListSubmissionsByRetailer(ctx context.Context, retailerID string) ([]models.Submission, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Submissions),
		IndexName:              aws.String(retailerSubmissionsIndex),
		KeyConditionExpression: aws.String("retailer_id = :retailer_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":retailer_id": str(retailerID),
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions by retailer: %w", err)
	}

	submissions := []models.Submission{}
	if err := attributevalue.UnmarshalListOfMaps(items, &submissions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submissions: %w", err)
	}
	return submissions, nil
}

// ListSubmissions scans every submission, newest first.
func (s *Store) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Submissions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan submissions table: %w", err)
	}

	submissions := []models.Submission{}
	if err := attributevalue.UnmarshalListOfMaps(items, &submissions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submissions: %w", err)
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].CreatedAt.After(submissions[j].CreatedAt)
	})
	return submissions, nil
}

// ChangeStatus applies a review transition guarded on the current status. The
// history entry is appended with list_append, so entries keep their write order.
func (s *Store) ChangeStatus(ctx context.Context, id string, change storage.StatusChange) (*models.Submission, error) {
	entryAV, err := attributevalue.Marshal([]models.StatusEntry{change.Entry})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status entry: %w", err)
	}
	nowAV, err := attributevalue.Marshal(change.Entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	sets := []string{
		"#status = :to",
		"status_history = list_append(status_history, :entry)",
		"updated_at = :now",
	}
	values := map[string]types.AttributeValue{
		":to":    str(string(change.To)),
		":from":  str(string(change.From)),
		":entry": entryAV,
		":now":   nowAV,
	}
	if change.AdminRemarks != nil {
		sets = append(sets, "admin_remarks = :remarks")
		values[":remarks"] = str(*change.AdminRemarks)
	}
	if len(change.ReUploaded) > 0 {
		filesAV, err := attributevalue.Marshal(change.ReUploaded)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal re-uploaded files: %w", err)
		}
		sets = append(sets, "re_uploaded_files = list_append(re_uploaded_files, :files)")
		values[":files"] = filesAV
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(s.Tables.Submissions),
		Key:                                 submissionKey(id),
		UpdateExpression:                    aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:                 aws.String("#status = :from"),
		ExpressionAttributeNames:            map[string]string{"#status": "status"},
		ExpressionAttributeValues:           values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if old, ok := conditionalCheckItem(err); ok {
			if len(old) == 0 {
				return nil, fmt.Errorf("submission %s not found: %w", id, storage.ErrNotFound)
			}
			return nil, storage.ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	var sub models.Submission
	if err := attributevalue.UnmarshalMap(result.Attributes, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// paymentUpdate builds the guarded payment write of a submission.
func (s *Store) paymentUpdate(id string, upd storage.PaymentUpdate) (*types.Update, error) {
	entryAV, err := attributevalue.Marshal([]models.StatusEntry{upd.Entry})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status entry: %w", err)
	}
	nowAV, err := attributevalue.Marshal(upd.Entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	sets := []string{
		"payment_method = :method",
		"payment_status = :payment_status",
		"status_history = list_append(status_history, :entry)",
		"updated_at = :now",
	}
	values := map[string]types.AttributeValue{
		":method":         str(string(upd.Method)),
		":payment_status": str(string(upd.Status)),
		":paid":           str(string(models.PaymentPaid)),
		":entry":          entryAV,
		":now":            nowAV,
	}
	if upd.OrderID != "" {
		sets = append(sets, "order_id = :order_id")
		values[":order_id"] = str(upd.OrderID)
	}

	return &types.Update{
		TableName:                           aws.String(s.Tables.Submissions),
		Key:                                 submissionKey(id),
		UpdateExpression:                    aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:                 aws.String("attribute_exists(id) AND payment_status <> :paid"),
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}, nil
}

// paymentFailure maps a failed payment condition to the matching storage error.
func paymentFailure(id string, old map[string]types.AttributeValue) error {
	if len(old) == 0 {
		return fmt.Errorf("submission %s not found: %w", id, storage.ErrNotFound)
	}
	return storage.ErrAlreadyPaid
}

// UpdatePayment records a payment event that moves no money.
func (s *Store) UpdatePayment(ctx context.Context, id string, upd storage.PaymentUpdate, order *models.PaymentOrder) (*models.Submission, error) {
	update, err := s.paymentUpdate(id, upd)
	if err != nil {
		return nil, err
	}

	if order == nil {
		result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                           update.TableName,
			Key:                                 update.Key,
			UpdateExpression:                    update.UpdateExpression,
			ConditionExpression:                 update.ConditionExpression,
			ExpressionAttributeValues:           update.ExpressionAttributeValues,
			ReturnValues:                        types.ReturnValueAllNew,
			ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
		})
		if err != nil {
			if old, ok := conditionalCheckItem(err); ok {
				return nil, paymentFailure(id, old)
			}
			return nil, fmt.Errorf("failed to update submission payment: %w", err)
		}

		var sub models.Submission
		if err := attributevalue.UnmarshalMap(result.Attributes, &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
		}
		return &sub, nil
	}

	orderPut, err := s.orderPut(order)
	if err != nil {
		return nil, err
	}
	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{{Update: update}, {Put: orderPut}},
	})
	if err != nil {
		reasons := cancellationReasons(err)
		switch {
		case conditionFailed(reasons, 0):
			return nil, paymentFailure(id, reasons[0].Item)
		case conditionFailed(reasons, 1):
			return nil, fmt.Errorf("payment order %s already exists: %w", order.OrderId, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to update submission payment: %w", err)
	}

	return s.GetSubmission(ctx, id)
}

// PayWithDebit marks the submission paid and debits the wallet in one transaction.
func (s *Store) PayWithDebit(ctx context.Context, id string, upd storage.PaymentUpdate, e storage.Entry) (*models.Transaction, error) {
	tx, items, err := s.entryItems(e, s.now())
	if err != nil {
		return nil, err
	}
	update, err := s.paymentUpdate(id, upd)
	if err != nil {
		return nil, err
	}
	items = append(items, types.TransactWriteItem{Update: update})

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		reasons := cancellationReasons(err)
		switch {
		case conditionFailed(reasons, 2):
			return nil, paymentFailure(id, reasons[2].Item)
		case conditionFailed(reasons, 0):
			return nil, entryFailure(reasons[0], e)
		}
		return nil, fmt.Errorf("failed to execute payment transaction: %w", err)
	}

	return tx, nil
}
