package vibematch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"yashubustudio/vibematch/matcher"
)

// NotPairedMessage is shown to anyone the run left unmatched.
const NotPairedMessage = "No match found. You may not have been paired this Valentine's Day, but your love story is just beginning!"

// Service embeds submissions, runs the matcher and decorates the results.
type Service struct {
	embedder Embedder
	aura     AuraClassifier

	cfgMu sync.RWMutex
	cfg   Config

	log zerolog.Logger
}

// NewService constructs a service. A nil aura classifier disables auras.
// The config's column candidates become the active detection lists.
func NewService(embedder Embedder, aura AuraClassifier, cfg Config, logger zerolog.Logger) (*Service, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if err := cfg.Matcher.Validate(); err != nil {
		return nil, err
	}
	if aura == nil {
		aura = NoopAura{}
	}
	SetColumnCandidates(cfg.Candidates)
	return &Service{
		embedder: embedder,
		aura:     aura,
		cfg:      cfg,
		log:      logger.With().Str("component", "service").Logger(),
	}, nil
}

// OpenService builds the configured embedder and aura classifier and wraps
// them in a Service.
func OpenService(cfg Config, logger zerolog.Logger) (*Service, error) {
	embedder, err := NewEmbedder(cfg.Embedder, logger)
	if err != nil {
		return nil, err
	}
	var aura AuraClassifier
	if cfg.Aura.Enabled {
		aura, err = NewLLMAuraClassifier(cfg.Embedder.OpenAI)
		if err != nil {
			_ = embedder.Close()
			return nil, err
		}
	}
	svc, err := NewService(embedder, aura, cfg, logger)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}
	return svc, nil
}

// Close releases embedder resources.
func (s *Service) Close() error {
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// Config returns the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the configuration after validating the matcher part.
// The embedder and aura classifier are built once by OpenService, so their
// sections keep the running values; changes to them apply on restart.
func (s *Service) UpdateConfig(cfg Config) error {
	if err := cfg.Matcher.Validate(); err != nil {
		return err
	}
	s.cfgMu.Lock()
	running := s.cfg
	if cfg.Embedder != running.Embedder || cfg.Aura != running.Aura {
		s.log.Info().Msg("embedder and aura changes apply on restart")
	}
	cfg.Embedder = running.Embedder
	cfg.Aura = running.Aura
	s.cfg = cfg
	s.cfgMu.Unlock()
	SetColumnCandidates(cfg.Candidates)
	return nil
}

// Run matches the submissions and returns one row per submission in input
// order. Nothing is returned unless the whole run succeeds.
func (s *Service) Run(ctx context.Context, subs []Submission) ([]ResultRow, error) {
	cfg := s.Config()
	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	started := time.Now()

	texts := make([]string, len(subs))
	for i, sub := range subs {
		texts[i] = sub.Text
	}
	vecs, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if len(vecs) != len(subs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(subs))
	}
	log.Debug().Int("submissions", len(subs)).Str("model", s.embedder.ModelID()).Msg("embedded")

	entities := make([]matcher.Entity, len(subs))
	for i, sub := range subs {
		entities[i] = toEntity(i, sub, vecs[i])
	}
	results, err := matcher.Match(entities, cfg.Matcher)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	auras := s.classifyAuras(ctx, texts, cfg.Aura, log)
	rows := make([]ResultRow, len(subs))
	matched := 0
	for i, res := range results {
		rows[i] = resultRow(subs, i, res, auras[i])
		if res.Matched {
			matched++
		}
	}
	log.Info().
		Int("submissions", len(subs)).
		Int("matched", matched).
		Int("unmatched", len(subs)-matched).
		Str("strategy", string(cfg.Matcher.Strategy)).
		Dur("elapsed", time.Since(started)).
		Msg("match run complete")
	return rows, nil
}

// RunFile reads submissions from in, runs them and writes the result table
// to out.
func (s *Service) RunFile(ctx context.Context, in string, out string) ([]ResultRow, error) {
	subs, err := ParseSubmissions(in, s.Config().Columns)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	if len(subs) == 0 {
		return nil, errors.New("input file does not contain any submissions")
	}
	rows, err := s.Run(ctx, subs)
	if err != nil {
		return nil, err
	}
	if err := WriteResultsCSV(out, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// classifyAuras never fails the run; a failed text keeps a blank aura.
func (s *Service) classifyAuras(ctx context.Context, texts []string, cfg AuraConfig, log zerolog.Logger) []string {
	out := make([]string, len(texts))
	if !cfg.Enabled {
		return out
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, t := range texts {
		g.Go(func() error {
			label, err := s.aura.Classify(ctx, t)
			if err != nil {
				log.Warn().Err(err).Int("row", i).Msg("aura classification failed")
				return nil
			}
			out[i] = label
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func toEntity(i int, sub Submission, vec []float32) matcher.Entity {
	return matcher.Entity{
		ID:        i,
		Name:      NormalizeText(sub.Name),
		Group:     sub.Group,
		Gender:    matcher.ParseGender(sub.Gender),
		Target:    matcher.ParseGender(sub.TargetGender),
		Embedding: vec,
		Effort:    sub.Effort,
		HasEffort: sub.HasEffort,
		Timestamp: sub.SubmittedAt,
	}
}

func resultRow(subs []Submission, i int, res matcher.MatchResult, aura string) ResultRow {
	sub := subs[i]
	row := ResultRow{
		ID:           sub.Index,
		Name:         sub.Name,
		Group:        sub.Group,
		Gender:       sub.Gender,
		TargetGender: sub.TargetGender,
		Text:         sub.Text,
		Label:        res.Label,
		Aura:         aura,
		Matched:      res.Matched,
	}
	if !res.Matched {
		row.Message = NotPairedMessage
		return row
	}
	partner := subs[res.PartnerID]
	row.MatchName = partner.Name
	row.MatchGroup = partner.Group
	row.Score = percent(res.Similarity)
	row.Fate = res.Fate.String()
	row.Message = partner.Text
	return row
}

// percent reports a cosine similarity as a percentage with one decimal.
func percent(sim float64) float64 {
	return math.Round(sim*1000) / 10
}
