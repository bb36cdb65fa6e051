package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fleetdesk-api/internal/domain"
)

// AccountRepo provides typed DynamoDB operations for one role's account table.
// Mobile number is the partition key (the natural key — unique per role);
// account_id is reachable through the account_id-index GSI for token-based
// lookups.
type AccountRepo struct {
	client    *dynamodb.Client
	tableName string
	role      domain.Role
}

func NewAccountRepo(client *dynamodb.Client, tableName string, role domain.Role) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName, role: role}
}

// Role returns the role this repo serves.
func (r *AccountRepo) Role() domain.Role { return r.role }

// Put inserts a new account. The conditional write makes a duplicate mobile
// fail with domain.ErrAccountExists instead of silently overwriting.
func (r *AccountRepo) Put(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(mobile)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("mobile %s taken: %w", a.Mobile, domain.ErrAccountExists)
		}
		return err
	}
	return nil
}

func (r *AccountRepo) GetByMobile(ctx context.Context, mobile string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("mobile", mobile),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account for mobile not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID resolves an account from its ULID via the account_id-index GSI.
// Used by the authorization middleware, which only has token claims.
func (r *AccountRepo) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("account_id-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "account_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: accountID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("account %s not found: %w", accountID, domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) Update(ctx context.Context, mobile string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("mobile", mobile),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// MarkVerified flips the verified flag on an existing account.
func (r *AccountRepo) MarkVerified(ctx context.Context, mobile string) error {
	return r.Update(ctx, mobile, map[string]interface{}{fieldVerified: true})
}

func (r *AccountRepo) SoftDelete(ctx context.Context, mobile string) error {
	return r.Update(ctx, mobile, map[string]interface{}{
		fieldEnable:    false,
		fieldDeletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
