package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fleetdesk-api/internal/domain"
)

// RecordStore provides generic keyed-record CRUD for the simple business
// entities that hang off the auth core (vessels, rosters, reports). Each
// table has a single string partition key and an owner_id-index GSI.
type RecordStore[T any] struct {
	client    *dynamodb.Client
	tableName string
	keyAttr   string
}

func NewRecordStore[T any](client *dynamodb.Client, tableName, keyAttr string) *RecordStore[T] {
	return &RecordStore[T]{client: client, tableName: tableName, keyAttr: keyAttr}
}

func (r *RecordStore[T]) Put(ctx context.Context, item *T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *RecordStore[T]) Get(ctx context.Context, id string) (*T, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(r.keyAttr, id),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("record %s not found: %w", id, domain.ErrNotFound)
	}
	var item T
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RecordStore[T]) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(r.keyAttr, id),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *RecordStore[T]) SoftDelete(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]interface{}{
		fieldEnable:    false,
		fieldDeletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListByOwner returns all enabled records owned by ownerID via the
// owner_id-index GSI.
func (r *RecordStore[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("owner_id-index"),
		KeyConditionExpression:    aws.String("#o = :v"),
		FilterExpression:          aws.String("#e = :t"),
		ExpressionAttributeNames:  map[string]string{"#o": "owner_id", "#e": fieldEnable},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: ownerID},
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var items []T
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
