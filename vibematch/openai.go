package vibematch

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const embeddingBatchSize = 256

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder builds the client. BaseURL may point at Ollama or any
// other compatible server.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.EmbeddingModel == "" {
		return nil, errors.New("embedding model is required")
	}
	return &OpenAIEmbedder{
		client: newOpenAIClient(cfg),
		model:  cfg.EmbeddingModel,
	}, nil
}

func newOpenAIClient(cfg OpenAIConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config)
}

// ModelID implements Embedder.
func (e *OpenAIEmbedder) ModelID() string { return "openai:" + e.model }

// Close implements Embedder.
func (e *OpenAIEmbedder) Close() error { return nil }

// EmbedTexts sends non-blank texts in batches and returns nil for blanks.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		batch []string
		slots []int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(slots) {
				return fmt.Errorf("embeddings: index %d out of range", d.Index)
			}
			out[slots[d.Index]] = d.Embedding
		}
		batch, slots = batch[:0], slots[:0]
		return nil
	}
	for i, t := range texts {
		t = NormalizeText(t)
		if t == "" {
			continue
		}
		batch = append(batch, t)
		slots = append(slots, i)
		if len(batch) == embeddingBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
