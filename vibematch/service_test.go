package vibematch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/vibematch/matcher"
)

// stubEmbedder maps known texts to fixed vectors and counts calls.
type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
	seen    []string
	err     error
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, texts...)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vectors[NormalizeText(t)]
	}
	return out, nil
}

func (s *stubEmbedder) ModelID() string { return "stub" }
func (s *stubEmbedder) Close() error    { return nil }

type stubAura struct {
	fail string
}

func (a stubAura) Classify(_ context.Context, text string) (string, error) {
	if text == a.fail {
		return "", errors.New("boom")
	}
	return "joy", nil
}

func scenarioSubmissions() ([]Submission, *stubEmbedder) {
	subs := []Submission{
		{Name: "Alice", Group: "A", Gender: "male", TargetGender: "any", Text: "stars"},
		{Name: "Bianca", Group: "B", Gender: "female", TargetGender: "any", Text: "stars too"},
		{Name: "Chidi", Group: "C", Gender: "male", TargetGender: "female", Text: "philosophy"},
		{Name: "Dana", Group: "D", Gender: "female", TargetGender: "female", Text: "hiking"},
	}
	emb := &stubEmbedder{vectors: map[string][]float32{
		"stars":      {1, 0},
		"stars too":  {1, 0},
		"philosophy": {0, 1},
		"hiking":     {0.6, 0.8},
	}}
	return subs, emb
}

func TestServiceRun(t *testing.T) {
	subs, emb := scenarioSubmissions()
	svc, err := NewService(emb, stubAura{fail: "hiking"}, withAura(DefaultConfig()), zerolog.Nop())
	require.NoError(t, err)

	rows, err := svc.Run(context.Background(), subs)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.True(t, rows[0].Matched)
	assert.Equal(t, "Bianca", rows[0].MatchName)
	assert.Equal(t, "B", rows[0].MatchGroup)
	assert.Equal(t, "stars too", rows[0].Message)
	assert.Equal(t, 100.0, rows[0].Score)
	assert.Equal(t, matcher.Flames("Alice", "Bianca").String(), rows[0].Fate)
	assert.Equal(t, "Alice", rows[1].MatchName)
	assert.Equal(t, rows[0].Label, rows[1].Label)

	for _, r := range rows[2:] {
		assert.False(t, r.Matched)
		assert.Empty(t, r.MatchName)
		assert.Equal(t, "No Match", r.Label)
		assert.Equal(t, NotPairedMessage, r.Message)
	}
	assert.Equal(t, "joy", rows[0].Aura)
	assert.Empty(t, rows[3].Aura)
	assert.Equal(t, 1, emb.calls)
}

func TestServiceRunRejectsUnknownGender(t *testing.T) {
	subs, emb := scenarioSubmissions()
	subs[2].Gender = "robot"
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	rows, err := svc.Run(context.Background(), subs)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, matcher.ErrInvalidEntity)
}

func TestServiceRunEmbedFailure(t *testing.T) {
	subs, emb := scenarioSubmissions()
	emb.err = errors.New("model offline")
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), subs)
	assert.ErrorContains(t, err, "model offline")
}

func TestServiceRunFile(t *testing.T) {
	in := writeFile(t, "form.csv", "name,class,gender,target_gender,pickup_line\n"+
		"Alice,A,male,any,stars\nBianca,B,female,any,stars too\nChidi,C,male,female,philosophy\n")
	out := filepath.Join(t.TempDir(), "results.csv")
	_, emb := scenarioSubmissions()
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	rows, err := svc.RunFile(context.Background(), in, out)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	back, err := ReadResultsCSV(out)
	require.NoError(t, err)
	require.Len(t, back, 3)
	assert.Equal(t, "Bianca", back[0].MatchName)
	assert.False(t, back[2].Matched)
}

func TestNewServiceValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Matcher.Strategy = "random"
	_, err := NewService(&stubEmbedder{}, nil, cfg, zerolog.Nop())
	assert.ErrorIs(t, err, matcher.ErrInvalidConfig)

	_, err = NewService(nil, nil, DefaultConfig(), zerolog.Nop())
	assert.Error(t, err)
}

func TestUpdateConfig(t *testing.T) {
	svc, err := NewService(&stubEmbedder{}, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Matcher.Strategy = matcher.StrategyShortlist
	require.NoError(t, svc.UpdateConfig(cfg))
	assert.Equal(t, matcher.StrategyShortlist, svc.Config().Matcher.Strategy)

	cfg.Matcher.Shortlist.Size = 0
	assert.Error(t, svc.UpdateConfig(cfg))
	assert.Equal(t, 3, svc.Config().Matcher.Shortlist.Size)
}

func TestUpdateConfigKeepsRunningEmbedder(t *testing.T) {
	svc, err := NewService(&stubEmbedder{}, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Embedder.Provider = "openai"
	cfg.Embedder.OpenAI.EmbeddingModel = "other-model"
	cfg.Aura.Enabled = true
	cfg.Matcher.Weights.Temporal = 0.3
	require.NoError(t, svc.UpdateConfig(cfg))

	got := svc.Config()
	assert.Equal(t, DefaultConfig().Embedder, got.Embedder)
	assert.False(t, got.Aura.Enabled)
	assert.Equal(t, 0.3, got.Matcher.Weights.Temporal)
}

func TestUpdateConfigAppliesColumnCandidates(t *testing.T) {
	t.Cleanup(func() { SetColumnCandidates(DefaultColumnCandidates()) })
	svc, err := NewService(&stubEmbedder{}, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Candidates.Text = []string{"why me"}
	require.NoError(t, svc.UpdateConfig(cfg))

	meta, err := ReadInputFileMetadata(writeFile(t, "f.csv", "Name,Why Me,Vibe\n"))
	require.NoError(t, err)
	assert.Equal(t, "Why Me", meta.Suggested.TextColumn)
}

func TestServiceRunRejectsZeroEffort(t *testing.T) {
	subs, emb := scenarioSubmissions()
	subs[1].Effort, subs[1].HasEffort = 0, true
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	rows, err := svc.Run(context.Background(), subs)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, matcher.ErrInvalidEntity)
	assert.ErrorContains(t, err, "effort")
}

func TestServiceRunFileZeroEffortCell(t *testing.T) {
	in := writeFile(t, "form.csv", "id,name,gender,target_gender,pickup_line,effort\n"+
		"a1,Alice,male,any,stars,0\nb2,Bianca,female,any,stars too,\n")
	_, emb := scenarioSubmissions()
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.RunFile(context.Background(), in, filepath.Join(t.TempDir(), "out.csv"))
	assert.ErrorIs(t, err, matcher.ErrInvalidEntity)
}

func TestServiceRunCarriesRowID(t *testing.T) {
	subs, emb := scenarioSubmissions()
	for i := range subs {
		subs[i].Index = fmt.Sprintf("r%d", i+1)
	}
	subs[0].Effort, subs[0].HasEffort = 0.7, true
	subs[1].Effort, subs[1].HasEffort = 0.7, true
	svc, err := NewService(emb, nil, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	rows, err := svc.Run(context.Background(), subs)
	require.NoError(t, err)
	assert.Equal(t, "r1", rows[0].ID)
	assert.Equal(t, "r4", rows[3].ID)
	assert.True(t, rows[0].Matched)
	assert.Equal(t, "Bianca", rows[0].MatchName)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 87.3, percent(0.8731))
	assert.Equal(t, -12.5, percent(-0.12501))
	assert.Equal(t, 100.0, percent(1))
}

func withAura(cfg Config) Config {
	cfg.Aura.Enabled = true
	cfg.Aura.Concurrency = 2
	return cfg
}

func TestOpenServiceWithoutEmbeddings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedder.Provider = "none"
	svc, err := OpenService(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	subs, _ := scenarioSubmissions()
	rows, err := svc.Run(context.Background(), subs)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		if r.Matched {
			assert.Zero(t, r.Score)
		}
	}
}
