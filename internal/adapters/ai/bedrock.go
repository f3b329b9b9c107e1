package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

const toolName = "record_habit_suggestions"

var ErrNoStructuredOutput = errors.New("model returned no structured output")

var _ domain.SuggestionGenerator = (*BedrockGenerator)(nil)

type converseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGenerator asks a Bedrock model for suggestions through the Converse
// API. The answer is forced through a single tool whose input schema is the
// suggestion schema, so the reply is always JSON.
type BedrockGenerator struct {
	client  converseAPI
	modelID string
}

func NewBedrockGenerator(ctx context.Context, region, modelID string) (*BedrockGenerator, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

func (g *BedrockGenerator) Generate(ctx context.Context, prompt string, schema map[string]any) ([]domain.Suggestion, error) {
	out, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}},
		ToolConfig: &types.ToolConfiguration{
			Tools: []types.Tool{&types.ToolMemberToolSpec{Value: types.ToolSpecification{
				Name:        aws.String(toolName),
				Description: aws.String("Record the suggested habits."),
				InputSchema: &types.ToolInputSchemaMemberJson{Value: document.NewLazyDocument(schema)},
			}}},
			ToolChoice: &types.ToolChoiceMemberTool{Value: types.SpecificToolChoice{Name: aws.String(toolName)}},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(2048),
			Temperature: aws.Float32(0.7),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, ErrNoStructuredOutput
	}

	for _, block := range msg.Value.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberToolUse:
			if b.Value.Input == nil {
				continue
			}
			raw, err := b.Value.Input.MarshalSmithyDocument()
			if err != nil {
				return nil, fmt.Errorf("failed to read tool input: %w", err)
			}
			return ParseSuggestions(raw)
		case *types.ContentBlockMemberText:
			if s, err := ParseSuggestions([]byte(b.Value)); err == nil {
				return s, nil
			}
		}
	}

	return nil, ErrNoStructuredOutput
}

type suggestionPayload struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// ParseSuggestions decodes a {"suggestions": [...]} document. Text answers
// may wrap the JSON in a markdown fence, which is stripped first.
func ParseSuggestions(raw []byte) ([]domain.Suggestion, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("malformed suggestion payload: %w", err)
	}
	if payload.Suggestions == nil {
		return nil, ErrNoStructuredOutput
	}
	return payload.Suggestions, nil
}
