package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plantdb/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// Source identifies this service on the bus.
const Source = "plantdb.backend"

// Publisher implements ports.EventPublisher using AWS EventBridge
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a single mutation event to EventBridge
func (p *Publisher) Publish(ctx context.Context, event ports.MutationEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(p.eventBusName),
		Source:       aws.String(Source),
		DetailType:   aws.String(event.Type),
		Detail:       aws.String(string(detail)),
		Time:         aws.Time(time.Now()),
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if out.FailedEntryCount > 0 {
		for _, e := range out.Entries {
			if e.ErrorCode != nil {
				return fmt.Errorf("event rejected: %s: %s",
					aws.ToString(e.ErrorCode), aws.ToString(e.ErrorMessage))
			}
		}
	}

	p.logger.Debug("Mutation event published",
		zap.String("type", event.Type),
		zap.String("id", event.ID),
	)
	return nil
}
