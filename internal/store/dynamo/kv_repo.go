package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KVItem is one stored value keyed by its storage key.
type KVItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

type itemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type KVRepo struct {
	client itemAPI
	table  string
	clock  func() time.Time
}

func NewKVRepo(client itemAPI, table string) *KVRepo {
	if table == "" {
		table = TableKV
	}
	return &KVRepo{client: client, table: table, clock: time.Now}
}

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	// "value" is a reserved word, so the projection goes through the builder
	proj := expression.NamesList(expression.Name(attrValue))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return "", false, fmt.Errorf("kv.buildProjection: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			attrKey: &types.AttributeValueMemberS{Value: key},
		},
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("kv.getItem %s: %w", key, err)
	}
	if out.Item == nil {
		return "", false, nil
	}

	var item KVItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", false, fmt.Errorf("kv.unmarshal %s: %w", key, err)
	}
	return item.Value, true, nil
}

// Set overwrites the item for key unconditionally.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	av, err := attributevalue.MarshalMap(KVItem{
		Key:       key,
		Value:     value,
		UpdatedAt: r.clock().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("kv.marshal %s: %w", key, err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("kv.putItem %s: %w", key, err)
	}
	return nil
}
