package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"plantdb/application/ports"
	"plantdb/domain/plant"
	apperrors "plantdb/pkg/errors"
	"plantdb/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PlantRepository implements ports.PlantRepository on a single DynamoDB
// table. The canonical record lives under PK "PLANT#<id>"; each alias gets
// its own row under "ALIAS#<id>#<aliasslug>" carrying the constant GSI
// partition value so the AliasIndex GSI can be range scanned by prefix.
// Record writes and their alias rows go through one TransactWriteItems call,
// so a reader never observes a record whose index entries are missing or
// stale.
type PlantRepository struct {
	client         *dynamodb.Client
	tableName      string
	partitionValue string
	logger         *zap.Logger
}

// NewPlantRepository creates a new PlantRepository
func NewPlantRepository(client *dynamodb.Client, tableName, partitionValue string, logger *zap.Logger) *PlantRepository {
	return &PlantRepository{
		client:         client,
		tableName:      tableName,
		partitionValue: partitionValue,
		logger:         logger,
	}
}

// recordItem is the DynamoDB item structure for a canonical record
type recordItem struct {
	PK         string `dynamodbav:"PK"`
	EntityType string `dynamodbav:"EntityType"`
	plant.Record
}

// aliasItem is the DynamoDB item structure for one alias index row
type aliasItem struct {
	PK        string `dynamodbav:"PK"`
	GSI1PK    string `dynamodbav:"GSI1PK"`
	Alias     string `dynamodbav:"alias"`
	TargetPK  string `dynamodbav:"targetPK"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

func aliasKey(id, alias string) string {
	return fmt.Sprintf("ALIAS#%s#%s", id, plant.Slugify(alias))
}

// Get retrieves a record by its canonical id
func (r *PlantRepository) Get(ctx context.Context, id string) (*plant.Record, bool, error) {
	id = plant.StripKeyPrefix(id)
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: plant.KeyPrefix + id},
		},
	})
	if err != nil {
		r.logger.Error("Failed to get plant record",
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, false, apperrors.NewDatabaseError("get", err)
	}
	if out.Item == nil {
		return nil, false, nil
	}

	var item recordItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, apperrors.NewDatabaseError("get", fmt.Errorf("unmarshal record: %w", err))
	}
	rec := item.Record
	rec.ID = plant.StripKeyPrefix(item.PK)
	return &rec, true, nil
}

// Put stores a record with full-replace semantics, applying the alias index
// mutations in the same transaction.
func (r *PlantRepository) Put(ctx context.Context, record *plant.Record, index ports.IndexUpdate) error {
	item := recordItem{
		PK:         record.Key(),
		EntityType: "PLANT",
		Record:     *record,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("put", fmt.Errorf("marshal record: %w", err))
	}

	writes := make([]types.TransactWriteItem, 0, 1+len(index.Remove)+len(index.Insert))

	// A transaction cannot touch the same item twice, so removals whose
	// alias row is about to be rewritten are skipped.
	inserting := make(map[string]struct{}, len(index.Insert))
	for _, alias := range index.Insert {
		inserting[aliasKey(record.ID, alias)] = struct{}{}
	}
	for _, alias := range index.Remove {
		key := aliasKey(record.ID, alias)
		if _, ok := inserting[key]; ok {
			continue
		}
		writes = append(writes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: key},
				},
			},
		})
	}

	writes = append(writes, types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(r.tableName),
			Item:      av,
		},
	})

	for _, alias := range index.Insert {
		aliasAV, err := attributevalue.MarshalMap(aliasItem{
			PK:        aliasKey(record.ID, alias),
			GSI1PK:    r.partitionValue,
			Alias:     alias,
			TargetPK:  record.Key(),
			CreatedAt: utils.NowRFC3339(),
		})
		if err != nil {
			return apperrors.NewDatabaseError("put", fmt.Errorf("marshal alias row: %w", err))
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(r.tableName),
				Item:      aliasAV,
			},
		})
	}

	if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	}); err != nil {
		r.logger.Error("Failed to put plant record",
			zap.String("id", record.ID),
			zap.Int("aliasInserts", len(index.Insert)),
			zap.Int("aliasRemovals", len(index.Remove)),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("put", err)
	}

	r.logger.Debug("Plant record stored",
		zap.String("id", record.ID),
		zap.Int("aliasInserts", len(index.Insert)),
	)
	return nil
}

// Delete removes a record and its alias rows in one transaction. A record
// that vanished between lookup and delete reports found=false, not an error.
func (r *PlantRepository) Delete(ctx context.Context, id string, index ports.IndexUpdate) (bool, error) {
	id = plant.StripKeyPrefix(id)

	writes := make([]types.TransactWriteItem, 0, 1+len(index.Remove))
	for _, alias := range index.Remove {
		writes = append(writes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: aliasKey(id, alias)},
				},
			},
		})
	}
	writes = append(writes, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: plant.KeyPrefix + id},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		},
	})

	if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
					return false, nil
				}
			}
		}
		r.logger.Error("Failed to delete plant record",
			zap.String("id", id),
			zap.Error(err),
		)
		return false, apperrors.NewDatabaseError("delete", err)
	}

	r.logger.Debug("Plant record deleted",
		zap.String("id", id),
		zap.Int("aliasRemovals", len(index.Remove)),
	)
	return true, nil
}
