package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const TableKV = "storefront_kv"

// Attribute names of a KV item.
const (
	attrKey   = "key"
	attrValue = "value"
)

type tableAPI interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTable creates the KV table if it does not exist yet.
func EnsureTable(ctx context.Context, client tableAPI, name string, log *slog.Logger) error {
	if name == "" {
		name = TableKV
	}
	exists, err := tableExists(ctx, client, name)
	if err != nil {
		return fmt.Errorf("check table %s: %w", name, err)
	}
	if exists {
		log.Info("table exists", "table", name)
		return nil
	}

	log.Info("creating table", "table", name)
	if err := createKVTable(ctx, client, name); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", name, err)
	}
	log.Info("table created", "table", name)
	return nil
}

func tableExists(ctx context.Context, client tableAPI, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func createKVTable(ctx context.Context, client tableAPI, name string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrKey), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrKey), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}
