package app

import (
	"fmt"
	"strconv"
	"strings"

	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

type tableColumn struct {
	Title  string
	Width  float32
	Render func(vibematch.ResultRow) string
}

func resultColumns(showAura bool) []tableColumn {
	cols := []tableColumn{
		{Title: "Name", Width: 160, Render: func(r vibematch.ResultRow) string { return r.Name }},
		{Title: "Class", Width: 80, Render: func(r vibematch.ResultRow) string { return r.Group }},
		{Title: "Match", Width: 160, Render: func(r vibematch.ResultRow) string { return dashIfEmpty(r.MatchName) }},
		{Title: "Match class", Width: 100, Render: func(r vibematch.ResultRow) string { return dashIfEmpty(r.MatchGroup) }},
		{Title: "Score", Width: 70, Render: func(r vibematch.ResultRow) string {
			if !r.Matched {
				return "-"
			}
			return fmt.Sprintf("%.1f", r.Score)
		}},
		{Title: "Label", Width: 160, Render: func(r vibematch.ResultRow) string { return r.Label }},
		{Title: "Fate", Width: 90, Render: func(r vibematch.ResultRow) string { return dashIfEmpty(r.Fate) }},
	}
	if showAura {
		cols = append(cols, tableColumn{Title: "Aura", Width: 110, Render: func(r vibematch.ResultRow) string { return r.Aura }})
	}
	return append(cols, tableColumn{Title: "Message", Width: 320, Render: func(r vibematch.ResultRow) string { return r.Message }})
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

const noColumn = "(none)"

// columnChoices lists the header options for one submission field.
func columnChoices(headers []string) []string {
	out := make([]string, 0, len(headers)+1)
	out = append(out, noColumn)
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("#%d", i+1)
		}
		out = append(out, h)
	}
	return out
}

func choiceValue(selected string) string {
	if selected == noColumn {
		return ""
	}
	return selected
}

func choiceLabel(value string) string {
	if value == "" {
		return noColumn
	}
	return value
}

// embedderRestartNote tells the user the settings form leaves the running
// embedder alone.
const embedderRestartNote = "Embedder and aura settings are read from config.yaml at startup."

// settingsInput is the raw text of the settings form.
type settingsInput struct {
	Strategy      string
	ShortlistSize string
	RerankWeight  string
	FloorEnabled  bool
	Floor         string
	Symbolic      string
	Temporal      string
	UseEffort     bool
}

func settingsFrom(cfg matcher.Config) settingsInput {
	return settingsInput{
		Strategy:      string(cfg.Strategy),
		ShortlistSize: strconv.Itoa(cfg.Shortlist.Size),
		RerankWeight:  formatFloat(cfg.Shortlist.RerankWeight),
		FloorEnabled:  cfg.Floor.Enabled,
		Floor:         formatFloat(cfg.Floor.Value),
		Symbolic:      formatFloat(cfg.Weights.Symbolic),
		Temporal:      formatFloat(cfg.Weights.Temporal),
		UseEffort:     cfg.Weights.UseEffort,
	}
}

// apply parses the form onto cfg. The result still needs Validate.
func (in settingsInput) apply(cfg matcher.Config) (matcher.Config, error) {
	size, err := strconv.Atoi(strings.TrimSpace(in.ShortlistSize))
	if err != nil {
		return cfg, fmt.Errorf("shortlist size: %w", err)
	}
	floats := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"rerank weight", in.RerankWeight, &cfg.Shortlist.RerankWeight},
		{"floor", in.Floor, &cfg.Floor.Value},
		{"symbolic weight", in.Symbolic, &cfg.Weights.Symbolic},
		{"temporal weight", in.Temporal, &cfg.Weights.Temporal},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	cfg.Strategy = matcher.Strategy(in.Strategy)
	cfg.Shortlist.Size = size
	cfg.Floor.Enabled = in.FloorEnabled
	cfg.Weights.UseEffort = in.UseEffort
	return cfg, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func summarize(cfg vibematch.Config) string {
	m := cfg.Matcher
	floor := "off"
	if m.Floor.Enabled {
		floor = formatFloat(m.Floor.Value)
	}
	s := fmt.Sprintf("Strategy: %s / Floor: %s / Symbolic: %s / Temporal: %s / Embedder: %s",
		m.Strategy, floor, formatFloat(m.Weights.Symbolic), formatFloat(m.Weights.Temporal), cfg.Embedder.Provider)
	if m.Strategy == matcher.StrategyShortlist {
		s += fmt.Sprintf(" / Shortlist: %d (w=%s)", m.Shortlist.Size, formatFloat(m.Shortlist.RerankWeight))
	}
	return s
}
