package vibematch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// InputParseOptions overrides column detection. Each value is a header
// name or a 1-based "#n" position.
type InputParseOptions struct {
	IndexColumn  string `koanf:"index"`
	NameColumn   string `koanf:"name"`
	GroupColumn  string `koanf:"group"`
	GenderColumn string `koanf:"gender"`
	TargetColumn string `koanf:"target"`
	TextColumn   string `koanf:"text"`
	TimeColumn   string `koanf:"time"`
	EffortColumn string `koanf:"effort"`
}

// InputFileMetadata provides header information and automatic column suggestions.
type InputFileMetadata struct {
	Columns   []string
	Suggested InputParseOptions
}

const utf8BOM = "\ufeff"

var resultHeader = []string{
	"id", "name", "class", "gender", "target_gender", "pickup_line",
	"match_name", "match_class", "score", "label", "fate", "primary_aura", "message",
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

// ParseSubmissions reads a CSV or TSV form export. Rows whose cells are all
// blank are skipped; every other row becomes a submission and is validated
// later by the matcher.
func ParseSubmissions(path string, opts InputParseOptions) ([]Submission, error) {
	rows, err := readDelimited(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := cleanRow(rows[0])
	cols, err := resolveInputColumns(header, opts)
	if err != nil {
		return nil, err
	}
	if cols.Name.Index < 0 {
		return nil, errors.New("no name column found")
	}
	out := make([]Submission, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		row := cleanRow(raw)
		if blankRow(row) {
			continue
		}
		line := i + 2
		sub := Submission{
			Index:        cell(row, cols.Index.Index),
			Name:         cell(row, cols.Name.Index),
			Group:        cell(row, cols.Group.Index),
			Gender:       cell(row, cols.Gender.Index),
			TargetGender: cell(row, cols.Target.Index),
			Text:         cell(row, cols.Text.Index),
		}
		if v := cell(row, cols.Time.Index); v != "" {
			ts, err := parseTime(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, cols.Time.HeaderName, err)
			}
			sub.SubmittedAt = ts
		}
		if v := cell(row, cols.Effort.Index); v != "" {
			effort, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: invalid number %q", line, cols.Effort.HeaderName, v)
			}
			sub.Effort = effort
			sub.HasEffort = true
		}
		out = append(out, sub)
	}
	return out, nil
}

// ReadInputFileMetadata returns the header and the detected column mapping.
func ReadInputFileMetadata(path string) (InputFileMetadata, error) {
	meta := InputFileMetadata{}
	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := newReader(f, path)
	row, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return meta, nil
		}
		return meta, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	header := cleanRow(row)
	meta.Columns = header
	if cols, err := resolveInputColumns(header, InputParseOptions{}); err == nil {
		meta.Suggested = InputParseOptions{
			IndexColumn:  cols.Index.HeaderName,
			NameColumn:   cols.Name.HeaderName,
			GroupColumn:  cols.Group.HeaderName,
			GenderColumn: cols.Gender.HeaderName,
			TargetColumn: cols.Target.HeaderName,
			TextColumn:   cols.Text.HeaderName,
			TimeColumn:   cols.Time.HeaderName,
			EffortColumn: cols.Effort.HeaderName,
		}
	}
	return meta, nil
}

// WriteResultsCSV writes rows with a UTF-8 BOM so spreadsheets pick the
// right encoding.
func WriteResultsCSV(path string, rows []ResultRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := EncodeResultsCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeResultsCSV writes the BOM, the header and one line per row.
func EncodeResultsCSV(w io.Writer, rows []ResultRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		score := ""
		if r.Matched {
			score = strconv.FormatFloat(r.Score, 'f', 1, 64)
		}
		rec := []string{
			r.ID, r.Name, r.Group, r.Gender, r.TargetGender, r.Text,
			r.MatchName, r.MatchGroup, score, r.Label, r.Fate, r.Aura, r.Message,
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

// ReadResultsCSV loads a file written by WriteResultsCSV. Columns are
// matched by header name, so extra or reordered columns are tolerated.
func ReadResultsCSV(path string) ([]ResultRow, error) {
	rows, err := readDelimited(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty results file")
	}
	header := cleanRow(rows[0])
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(h)] = i
	}
	if _, ok := idx["name"]; !ok {
		return nil, errors.New("results file has no name column")
	}
	get := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok {
			return ""
		}
		return cell(row, i)
	}
	out := make([]ResultRow, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		row := cleanRow(raw)
		if blankRow(row) {
			continue
		}
		r := ResultRow{
			ID:           get(row, "id"),
			Name:         get(row, "name"),
			Group:        get(row, "class"),
			Gender:       get(row, "gender"),
			TargetGender: get(row, "target_gender"),
			Text:         get(row, "pickup_line"),
			MatchName:    get(row, "match_name"),
			MatchGroup:   get(row, "match_class"),
			Label:        get(row, "label"),
			Fate:         get(row, "fate"),
			Aura:         get(row, "primary_aura"),
			Message:      get(row, "message"),
		}
		r.Matched = r.MatchName != ""
		if v := get(row, "score"); v != "" {
			score, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid score %q", i+2, v)
			}
			r.Score = score
		}
		out = append(out, r)
	}
	return out, nil
}

func readDelimited(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	rows, err := newReader(f, path).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func newReader(r io.Reader, path string) *csv.Reader {
	reader := csv.NewReader(r)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", v)
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, utf8BOM)
	return strings.TrimSpace(v)
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = cleanCell(c)
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

type columnResult struct {
	Index      int
	FromHeader bool
	HeaderName string
}

type resolvedColumns struct {
	Index  columnResult
	Name   columnResult
	Group  columnResult
	Gender columnResult
	Target columnResult
	Text   columnResult
	Time   columnResult
	Effort columnResult
}

func resolveInputColumns(header []string, opts InputParseOptions) (resolvedColumns, error) {
	candidates := getColumnCandidates()
	var res resolvedColumns
	fields := []struct {
		dst        *columnResult
		explicit   string
		candidates []string
	}{
		{&res.Index, opts.IndexColumn, candidates.Index},
		{&res.Name, opts.NameColumn, candidates.Name},
		{&res.Group, opts.GroupColumn, candidates.Group},
		{&res.Gender, opts.GenderColumn, candidates.Gender},
		{&res.Target, opts.TargetColumn, candidates.Target},
		{&res.Text, opts.TextColumn, candidates.Text},
		{&res.Time, opts.TimeColumn, candidates.Time},
		{&res.Effort, opts.EffortColumn, candidates.Effort},
	}
	for _, f := range fields {
		col, err := pickColumn(header, f.explicit, f.candidates)
		if err != nil {
			return res, err
		}
		col.HeaderName = headerNameForIndex(header, col.Index, col.FromHeader)
		*f.dst = col
	}
	return res, nil
}

func pickColumn(header []string, explicit string, candidates []string) (columnResult, error) {
	res := columnResult{Index: -1}
	if strings.TrimSpace(explicit) != "" {
		idx, fromHeader, err := matchExplicitColumn(header, explicit)
		if err != nil {
			return res, err
		}
		res.Index = idx
		res.FromHeader = fromHeader
		return res, nil
	}
	if idx := findColumn(header, candidates); idx >= 0 {
		res.Index = idx
		res.FromHeader = true
	}
	return res, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func headerNameForIndex(header []string, idx int, fromHeader bool) string {
	if idx < 0 {
		return ""
	}
	if fromHeader && idx < len(header) && header[idx] != "" {
		return header[idx]
	}
	return fmt.Sprintf("#%d", idx+1)
}
