package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// Global secondary indexes of the users table, both projecting all attributes.
const (
	userIDIndex = "user_id-index"
	emailIndex  = "email-index"
)

// GetUserByMobile retrieves an account by its mobile number, the users table key.
func (s *Store) GetUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Users),
		Key:            map[string]types.AttributeValue{"mobile": str(mobile)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("user with mobile %s not found: %w", mobile, storage.ErrNotFound)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// GetUserByID queries the user ID index.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.queryUser(ctx, userIDIndex, "user_id", userID)
}

// GetUserByEmail queries the email index. Index reads are eventually
// consistent, so a registration racing another with the same email may pass.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryUser(ctx, emailIndex, "email", email)
}

func (s *Store) queryUser(ctx context.Context, index, attr, value string) (*models.User, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Users),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(attr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": str(value),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query users by %s: %w", attr, err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("user with %s %s not found: %w", attr, value, storage.ErrNotFound)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// ListUsers scans the users table for one role, oldest first.
func (s *Store) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(s.Tables.Users),
		FilterExpression:         aws.String("#role = :role"),
		ExpressionAttributeNames: map[string]string{"#role": "role"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": str(string(role)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan users table: %w", err)
	}

	users := []models.User{}
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateUser sets the patched flags on an existing account.
func (s *Store) UpdateUser(ctx context.Context, mobile string, patch storage.UserPatch) (*models.User, error) {
	var sets []string
	values := map[string]types.AttributeValue{}
	if patch.Verified != nil {
		sets = append(sets, "is_verified = :verified")
		values[":verified"] = &types.AttributeValueMemberBOOL{Value: *patch.Verified}
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = :active")
		values[":active"] = &types.AttributeValueMemberBOOL{Value: *patch.IsActive}
	}
	if len(sets) == 0 {
		return s.GetUserByMobile(ctx, mobile)
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.Tables.Users),
		Key:                       map[string]types.AttributeValue{"mobile": str(mobile)},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(mobile)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if _, ok := conditionalCheckItem(err); ok {
			return nil, fmt.Errorf("user with mobile %s not found: %w", mobile, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user in DynamoDB: %w", err)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Attributes, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// CreateAccount stores the user and its wallet in one transaction, so an
// account never exists without its wallet.
func (s *Store) CreateAccount(ctx context.Context, user *models.User, wallet *models.Wallet) error {
	userAV, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Users),
				Item:                userAV,
				ConditionExpression: aws.String("attribute_not_exists(mobile)"),
			},
		},
	}

	if wallet != nil {
		walletAV, err := attributevalue.MarshalMap(wallet)
		if err != nil {
			return fmt.Errorf("failed to marshal wallet: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Wallets),
				Item:                walletAV,
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if reasons := cancellationReasons(err); conditionFailed(reasons, 0) || conditionFailed(reasons, 1) {
			return fmt.Errorf("account for mobile %s already exists: %w", user.Mobile, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}
	return nil
}
