package vibematch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// AuraLabels is the go_emotions label set the primary aura is drawn from.
var AuraLabels = []string{
	"admiration", "amusement", "anger", "annoyance", "approval", "caring",
	"confusion", "curiosity", "desire", "disappointment", "disapproval",
	"disgust", "embarrassment", "excitement", "fear", "gratitude", "grief",
	"joy", "love", "nervousness", "optimism", "pride", "realization",
	"relief", "remorse", "sadness", "surprise", "neutral",
}

// AuraClassifier tags a text with its dominant emotion.
type AuraClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// NoopAura leaves every aura blank.
type NoopAura struct{}

// Classify implements AuraClassifier.
func (NoopAura) Classify(context.Context, string) (string, error) { return "", nil }

// LLMAuraClassifier asks a chat model to pick one label from AuraLabels.
type LLMAuraClassifier struct {
	client *openai.Client
	model  string
}

// NewLLMAuraClassifier builds a classifier over an OpenAI-compatible endpoint.
func NewLLMAuraClassifier(cfg OpenAIConfig) (*LLMAuraClassifier, error) {
	if cfg.ChatModel == "" {
		return nil, fmt.Errorf("aura: chat model is required")
	}
	return &LLMAuraClassifier{client: newOpenAIClient(cfg), model: cfg.ChatModel}, nil
}

const auraPrompt = `Classify the dominant emotion of the text below.
Answer with exactly one word from this list and nothing else:
%s

Text: %s`

// Classify returns one of AuraLabels, or "neutral" when the model answers
// with anything else.
func (c *LLMAuraClassifier) Classify(ctx context.Context, text string) (string, error) {
	text = NormalizeText(text)
	if text == "" {
		return "", nil
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(auraPrompt, strings.Join(AuraLabels, ", "), text),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("aura: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("aura: no response choices")
	}
	return parseAura(resp.Choices[0].Message.Content), nil
}

func parseAura(answer string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.Trim(answer, ".!\"' \n")
	for _, l := range AuraLabels {
		if answer == l {
			return l
		}
	}
	for _, l := range AuraLabels {
		if strings.Contains(answer, l) {
			return l
		}
	}
	return "neutral"
}
