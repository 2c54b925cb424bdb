// Package vibematch turns a table of form submissions into one-to-one
// matches: it embeds each submission's text, hands the population to the
// matcher engine and decorates the results for export and lookup.
package vibematch

import (
	"time"

	"yashubustudio/vibematch/matcher"
)

// Submission is one row of the form export.
type Submission struct {
	// Index is the form's own row id, carried through to ResultRow.ID.
	Index        string    `json:"index,omitempty"`
	Name         string    `json:"name"`
	Group        string    `json:"class,omitempty"`
	Gender       string    `json:"gender"`
	TargetGender string    `json:"target_gender"`
	Text         string    `json:"pickup_line"`
	SubmittedAt  time.Time `json:"created_at,omitempty"`
	// HasEffort is set when the effort cell was filled in.
	Effort    float64 `json:"effort,omitempty"`
	HasEffort bool    `json:"-"`
}

// ResultRow is one line of the exported match table.
type ResultRow struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Group        string  `json:"class"`
	Gender       string  `json:"gender"`
	TargetGender string  `json:"target_gender"`
	Text         string  `json:"pickup_line"`
	MatchName    string  `json:"match_name"`
	MatchGroup   string  `json:"match_class"`
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	Fate         string  `json:"fate"`
	Aura         string  `json:"primary_aura"`
	Message      string  `json:"message"`
	Matched      bool    `json:"matched"`
}

// EmbedderConfig selects and configures the text embedder.
type EmbedderConfig struct {
	// Provider is onnx, openai or none.
	Provider      string       `koanf:"provider" validate:"oneof=onnx openai none"`
	OrtDLL        string       `koanf:"ort_dll"`
	ModelPath     string       `koanf:"model_path" validate:"required_if=Provider onnx"`
	TokenizerPath string       `koanf:"tokenizer_path" validate:"required_if=Provider onnx"`
	MaxSeqLen     int          `koanf:"max_seq_len" validate:"gte=0"`
	ModelID       string       `koanf:"model_id"`
	CacheDir      string       `koanf:"cache_dir"`
	OpenAI        OpenAIConfig `koanf:"openai"`
}

// OpenAIConfig points at any OpenAI-compatible endpoint, Ollama included.
type OpenAIConfig struct {
	APIKey         string `koanf:"api_key"`
	BaseURL        string `koanf:"base_url" validate:"omitempty,url"`
	EmbeddingModel string `koanf:"embedding_model"`
	ChatModel      string `koanf:"chat_model"`
}

// AuraConfig enables the primary-emotion tag on each result.
type AuraConfig struct {
	Enabled bool `koanf:"enabled"`
	// Concurrency bounds parallel classifier calls.
	Concurrency int `koanf:"concurrency" validate:"gte=0,lte=64"`
}

// LogConfig mirrors logging.Config for the config file.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ServerConfig configures the results lookup server.
type ServerConfig struct {
	Addr        string `koanf:"addr" validate:"required"`
	ResultsPath string `koanf:"results_path"`
}

// Config is the persisted application configuration.
type Config struct {
	Matcher  matcher.Config    `koanf:"matcher"`
	Embedder EmbedderConfig    `koanf:"embedder"`
	Aura     AuraConfig        `koanf:"aura"`
	Columns  InputParseOptions `koanf:"columns"`
	// Candidates are the header names tried when a column is not set.
	Candidates ColumnCandidates `koanf:"column_candidates"`
	Log        LogConfig        `koanf:"log"`
	Server     ServerConfig     `koanf:"server"`
}

// DefaultConfig returns the settings used when no file or env override exists.
func DefaultConfig() Config {
	return Config{
		Matcher: matcher.DefaultConfig(),
		Embedder: EmbedderConfig{
			Provider:      "onnx",
			ModelPath:     "models/all-MiniLM-L6-v2/model.onnx",
			TokenizerPath: "models/all-MiniLM-L6-v2/tokenizer.json",
			MaxSeqLen:     256,
			ModelID:       "all-MiniLM-L6-v2",
			CacheDir:      "cache/embeddings",
			OpenAI: OpenAIConfig{
				EmbeddingModel: "text-embedding-3-small",
				ChatModel:      "gpt-4o-mini",
			},
		},
		Aura: AuraConfig{
			Enabled:     false,
			Concurrency: 4,
		},
		Candidates: DefaultColumnCandidates(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ResultsPath: "matched_results.csv",
		},
	}
}
