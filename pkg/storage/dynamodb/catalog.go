package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// GetOption retrieves a catalog option by its ID.
func (s *Store) GetOption(ctx context.Context, optionID string) (*models.Option, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Options),
		Key:       map[string]types.AttributeValue{"option_id": str(optionID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get option from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("option %s not found: %w", optionID, storage.ErrNotFound)
	}

	var option models.Option
	if err := attributevalue.UnmarshalMap(result.Item, &option); err != nil {
		return nil, fmt.Errorf("failed to unmarshal option: %w", err)
	}
	return &option, nil
}

// PutOption creates or replaces a catalog option.
func (s *Store) PutOption(ctx context.Context, option *models.Option) error {
	item, err := attributevalue.MarshalMap(option)
	if err != nil {
		return fmt.Errorf("failed to marshal option: %w", err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Options),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put option in DynamoDB: %w", err)
	}
	return nil
}
