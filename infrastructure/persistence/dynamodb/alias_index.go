package dynamodb

import (
	"context"
	"strings"

	"plantdb/domain/plant"
	apperrors "plantdb/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// AliasIndex implements ports.AliasIndex over the AliasIndex GSI. Every
// alias row shares one constant partition value, so a begins_with condition
// on the alias sort key resolves a prefix query in a single ranged Query.
type AliasIndex struct {
	client          *dynamodb.Client
	tableName       string
	indexName       string
	partitionValue  string
	minPrefixLength int
	logger          *zap.Logger
}

// NewAliasIndex creates a new AliasIndex
func NewAliasIndex(client *dynamodb.Client, tableName, indexName, partitionValue string, minPrefixLength int, logger *zap.Logger) *AliasIndex {
	return &AliasIndex{
		client:          client,
		tableName:       tableName,
		indexName:       indexName,
		partitionValue:  partitionValue,
		minPrefixLength: minPrefixLength,
		logger:          logger,
	}
}

// aliasTarget is the projected shape of a matched alias row
type aliasTarget struct {
	TargetPK string `dynamodbav:"targetPK"`
}

// LookupByPrefix returns the canonical ids of every record with an alias
// starting with the lowercased prefix. Blank and too-short prefixes yield an
// empty set to bound fan-out on low-selectivity queries.
func (i *AliasIndex) LookupByPrefix(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < i.minPrefixLength {
		return nil, nil
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(i.partitionValue)).
		And(expression.KeyBeginsWith(expression.Key("alias"), prefix))
	proj := expression.NamesList(expression.Name("targetPK"))
	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithProjection(proj).
		Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("aliasLookup", err)
	}

	seen := make(map[string]struct{})
	var ids []string

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(i.tableName),
		IndexName:                 aws.String(i.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	for {
		out, err := i.client.Query(ctx, input)
		if err != nil {
			i.logger.Error("Alias prefix query failed",
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			return nil, apperrors.NewDatabaseError("aliasLookup", err)
		}

		for _, raw := range out.Items {
			var target aliasTarget
			if err := attributevalue.UnmarshalMap(raw, &target); err != nil {
				i.logger.Warn("Skipping unreadable alias row", zap.Error(err))
				continue
			}
			id := plant.StripKeyPrefix(target.TargetPK)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	i.logger.Debug("Alias prefix resolved",
		zap.String("prefix", prefix),
		zap.Int("matches", len(ids)),
	)
	return ids, nil
}
