// Package bedrock synthesizes plant records with an Amazon Bedrock model.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"plantdb/domain/plant"
	apperrors "plantdb/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"
)

const maxTokens = 1000

// responseStructure documents the JSON schema the model is asked to emit.
const responseStructure = `{
  "scientificName": "<scientific name>",
  "kingdom": "<kingdom>",
  "phylum": "<phylum>",
  "class": "<class>",
  "order": "<order>",
  "family": "<family>",
  "genus": "<genus>",
  "species": "<species>",
  "aliases": ["<common names>"],
  "watering": {"value": "1-10", "confidence": "0-1"},
  "light": {"value": "1-10", "confidence": "0-1"},
  "humidity": {"value": "1-10", "confidence": "0-1"},
  "temperature": {"value": "°C range", "confidence": "0-1"},
  "popularity": {"value": "1-100", "confidence": "0-1"},
  "soil": {"value": "<soil>", "confidence": "0-1"},
  "attributes": {
    "toxicity": "<toxicity>",
    "origin": "<origin>",
    "nativeHeight": "<nativeHeight>",
    "leafSize": "<leafSize>",
    "growthRate": "<growthRate>",
    "maintenanceLevel": "<maintenanceLevel>",
    "airPurifying": "<airPurifying>",
    "petFriendly": "<petFriendly>"
  }
}`

// Generator implements ports.AttributeGenerator via the Bedrock Converse API
type Generator struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

// NewGenerator creates a new Bedrock generator
func NewGenerator(client *bedrockruntime.Client, modelID string, logger *zap.Logger) *Generator {
	return &Generator{
		client:  client,
		modelID: modelID,
		logger:  logger,
	}
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`# Plant Care Information Generator

## Task
Generate a comprehensive JSON object containing detailed care information and taxonomic classification for the specified plant.

## Instructions
1. Analyze the plant name provided
2. Research its scientific classification, common names, and care requirements
3. Use full names for scientific classification
4. Compile all information into a structured JSON object following the exact schema below
5. soil.value should be one of: "sandy","loamy","saline","peaty","clay","silty","chalky"
6. Assign confidence scores based on the reliability of your information
7. Estimate how commonly the plant is known or owned by the general public and populate the "popularity" field

## JSON Schema
%s

## Important Rules
- Return ONLY the JSON object without any explanation, preamble, or additional text
- For 1-10 numeric fields (watering, light, humidity): 1 is lowest and 10 is highest
- For 1-100 numeric fields (popularity): 1 is lowest and 100 is highest
- For confidence scores: use a scale of 0-1 where 0 is no confidence and 1 is complete confidence
- If uncertain about any value, provide your best estimate but assign a lower confidence score
- Ensure all required fields are populated, even with best estimates when exact information is unavailable

Plant: %s`, responseStructure, query)
}

// Generate asks the model for a full record. Unparseable model output is a
// provider failure, surfaced to the caller.
func (g *Generator) Generate(ctx context.Context, query string) (*plant.Record, error) {
	out, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: buildPrompt(query)},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens: aws.Int32(maxTokens),
		},
	})
	if err != nil {
		g.logger.Error("Bedrock converse failed",
			zap.String("query", query),
			zap.String("modelID", g.modelID),
			zap.Error(err),
		)
		return nil, apperrors.NewExternalError("bedrock", err)
	}

	text := extractText(out)
	if text == "" {
		return nil, apperrors.NewExternalError("bedrock", fmt.Errorf("empty model response"))
	}

	var rec plant.Record
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &rec); err != nil {
		g.logger.Error("Bedrock returned unparseable JSON",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, apperrors.NewExternalError("bedrock", fmt.Errorf("malformed model output: %w", err))
	}

	g.logger.Info("Plant record generated",
		zap.String("query", query),
		zap.String("scientificName", rec.ScientificName),
	)
	return &rec, nil
}

func extractText(out *bedrockruntime.ConverseOutput) string {
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			return text.Value
		}
	}
	return ""
}

// stripCodeFence unwraps a ```json fenced block; models add one despite the
// prompt forbidding it.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
