package vibematch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"yashubustudio/vibematch/emb"
)

// Embedder exposes the minimal surface required by the service layer.
// A nil vector in the output means no embedding is available for that text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
	Close() error
}

// NewEmbedder builds the configured embedder, wrapped in the badger cache
// when a cache directory is set.
func NewEmbedder(cfg EmbedderConfig, logger zerolog.Logger) (Embedder, error) {
	var (
		inner Embedder
		err   error
	)
	switch cfg.Provider {
	case "onnx":
		inner, err = NewOrtEmbedder(cfg)
	case "openai":
		inner, err = NewOpenAIEmbedder(cfg.OpenAI)
	case "none", "":
		return NoEmbedder{}, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s embedder: %w", cfg.Provider, err)
	}
	if cfg.CacheDir == "" {
		return inner, nil
	}
	cached, err := NewCachedEmbedder(inner, CacheOptions{Dir: cfg.CacheDir, Logger: logger})
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	return cached, nil
}

// OrtEmbedder is a thin wrapper over emb.Encoder with an in-process cache.
type OrtEmbedder struct {
	enc      *emb.Encoder
	modelID  string
	memCache map[string][]float32
	mu       sync.RWMutex
}

// NewOrtEmbedder initializes the local ONNX encoder.
func NewOrtEmbedder(cfg EmbedderConfig) (*OrtEmbedder, error) {
	modelID := cfg.ModelID
	if modelID == "" && cfg.ModelPath != "" {
		modelID = filepath.Base(cfg.ModelPath)
	}
	encoder := &emb.Encoder{}
	if err := encoder.Init(emb.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
	}); err != nil {
		return nil, err
	}
	return &OrtEmbedder{
		enc:      encoder,
		modelID:  modelID,
		memCache: make(map[string][]float32),
	}, nil
}

// Close releases ORT resources.
func (o *OrtEmbedder) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.enc != nil {
		o.enc.Close()
		o.enc = nil
	}
	o.memCache = nil
	return nil
}

// ModelID returns the identifier used for cache keys.
func (o *OrtEmbedder) ModelID() string {
	return o.modelID
}

// EmbedTexts embeds each text in turn; blank texts yield nil.
func (o *OrtEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := o.embedOne(NormalizeText(t))
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (o *OrtEmbedder) embedOne(text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}
	o.mu.RLock()
	enc := o.enc
	vec, ok := o.memCache[text]
	o.mu.RUnlock()
	if enc == nil {
		return nil, errors.New("embedder is not initialized")
	}
	if ok {
		return cloneVector(vec), nil
	}
	vec, err := enc.Encode(text)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	if o.memCache != nil {
		o.memCache[text] = cloneVector(vec)
	}
	o.mu.Unlock()
	return vec, nil
}

// NoEmbedder produces no vectors; affinity then rests on the name
// algorithm and the temporal term alone.
type NoEmbedder struct{}

// EmbedTexts returns one nil vector per text.
func (NoEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

// ModelID implements Embedder.
func (NoEmbedder) ModelID() string { return "none" }

// Close implements Embedder.
func (NoEmbedder) Close() error { return nil }

func cloneVector(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
