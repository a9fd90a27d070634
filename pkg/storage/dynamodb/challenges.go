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

// batchWriteLimit is the maximum number of requests in one BatchWriteItem call.
const batchWriteLimit = 25

func challengeKey(subject string, purpose models.OtpPurpose) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"challenge_key": str(models.ChallengeKey(subject, purpose))}
}

// UpsertChallenge writes the challenge over the record the caller read at
// prevVersion, or into an empty slot. The ttl attribute lets DynamoDB sweep it
// after expiry.
func (s *Store) UpsertChallenge(ctx context.Context, ch *models.OtpChallenge, prevVersion int64) error {
	ch.Key = models.ChallengeKey(ch.Subject, ch.Purpose)
	ch.TTL = ch.ExpiresAt.Unix()

	item, err := attributevalue.MarshalMap(ch)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Challenges),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(challenge_key) OR version = :prev"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prev": num(prevVersion),
		},
	})
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			return storage.ErrVersionConflict
		}
		return fmt.Errorf("failed to put challenge in DynamoDB: %w", err)
	}
	return nil
}

// GetChallenge reads the challenge whatever its state.
func (s *Store) GetChallenge(ctx context.Context, subject string, purpose models.OtpPurpose) (*models.OtpChallenge, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Challenges),
		Key:            challengeKey(subject, purpose),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%s challenge for %s not found: %w", purpose, subject, storage.ErrNotFound)
	}

	var ch models.OtpChallenge
	if err := attributevalue.UnmarshalMap(result.Item, &ch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &ch, nil
}

// FindActive reads the challenge and reports anything but an active one as not
// found. Expiry is checked here, so correctness does not depend on the TTL sweep.
func (s *Store) FindActive(ctx context.Context, subject string, purpose models.OtpPurpose, now time.Time) (*models.OtpChallenge, error) {
	ch, err := s.GetChallenge(ctx, subject, purpose)
	if err != nil {
		return nil, err
	}
	if ch.State(now) != models.ChallengeActive {
		return nil, fmt.Errorf("active %s challenge for %s not found: %w", purpose, subject, storage.ErrNotFound)
	}
	return ch, nil
}

// RecordFailedAttempt increments attempts, and locks the challenge when lock is set.
func (s *Store) RecordFailedAttempt(ctx context.Context, ch *models.OtpChallenge, lock bool) (*models.OtpChallenge, error) {
	expr := "SET attempts = attempts + :inc, version = version + :inc"
	values := map[string]types.AttributeValue{
		":inc":     num(1),
		":version": num(ch.Version),
	}
	if lock {
		expr += ", locked = :true, used = :true"
		values[":true"] = boolean(true)
	}
	return s.updateChallenge(ctx, ch, expr, "version = :version", nil, values)
}

// MarkUsed consumes the challenge.
func (s *Store) MarkUsed(ctx context.Context, ch *models.OtpChallenge) (*models.OtpChallenge, error) {
	return s.updateChallenge(ctx, ch,
		"SET used = :true, version = version + :inc",
		"version = :version AND used = :false",
		nil,
		map[string]types.AttributeValue{
			":true":    boolean(true),
			":false":   boolean(false),
			":inc":     num(1),
			":version": num(ch.Version),
		})
}

// ReplaceCode installs a resent code. The condition also enforces the resend bound.
func (s *Store) ReplaceCode(ctx context.Context, ch *models.OtpChallenge, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error) {
	expiresAV, err := attributevalue.Marshal(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expiry: %w", err)
	}
	return s.updateChallenge(ctx, ch,
		"SET code_hash = :hash, attempts = :zero, resend_count = resend_count + :inc, expires_at = :expires, #ttl = :ttl, version = version + :inc",
		"version = :version AND resend_count < max_resend AND used = :false AND locked = :false",
		map[string]string{"#ttl": "ttl"},
		map[string]types.AttributeValue{
			":hash":    str(codeHash),
			":zero":    num(0),
			":inc":     num(1),
			":expires": expiresAV,
			":ttl":     num(expiresAt.Unix()),
			":version": num(ch.Version),
			":false":   boolean(false),
		})
}

func (s *Store) updateChallenge(ctx context.Context, ch *models.OtpChallenge, update, condition string, names map[string]string, values map[string]types.AttributeValue) (*models.OtpChallenge, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.Tables.Challenges),
		Key:                       challengeKey(ch.Subject, ch.Purpose),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			return nil, storage.ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update challenge in DynamoDB: %w", err)
	}

	var updated models.OtpChallenge
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &updated, nil
}

// RestoreChallenge writes prev back over the record at currentVersion. The
// restored record gets a fresh version so stale readers still lose their races.
func (s *Store) RestoreChallenge(ctx context.Context, prev *models.OtpChallenge, currentVersion int64) error {
	restored := *prev
	restored.Key = models.ChallengeKey(prev.Subject, prev.Purpose)
	restored.TTL = restored.ExpiresAt.Unix()
	restored.Version = currentVersion + 1

	item, err := attributevalue.MarshalMap(&restored)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Challenges),
		Item:                item,
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": num(currentVersion),
		},
	})
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			return storage.ErrVersionConflict
		}
		return fmt.Errorf("failed to restore challenge in DynamoDB: %w", err)
	}
	return nil
}

// DeleteChallenge removes the challenge if nobody replaced it since version.
func (s *Store) DeleteChallenge(ctx context.Context, subject string, purpose models.OtpPurpose, version int64) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.Tables.Challenges),
		Key:                 challengeKey(subject, purpose),
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": num(version),
		},
	})
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			// Already superseded or gone.
			return nil
		}
		return fmt.Errorf("failed to delete challenge from DynamoDB: %w", err)
	}
	return nil
}

// DeleteExpired scans for challenges past their expiry and deletes them in batches.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(s.Tables.Challenges),
		FilterExpression:         aws.String("#ttl <= :now"),
		ProjectionExpression:     aws.String("challenge_key"),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": num(now.Unix()),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan for expired challenges: %w", err)
	}

	deleted := 0
	for start := 0; start < len(items); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(items))
		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{"challenge_key": item["challenge_key"]},
				},
			})
		}

		result, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.Tables.Challenges: requests},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete expired challenges: %w", err)
		}
		// Unprocessed deletes are picked up by the next sweep.
		deleted += len(requests) - len(result.UnprocessedItems[s.Tables.Challenges])
	}

	return deleted, nil
}
