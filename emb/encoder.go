// Package emb runs a sentence-embedding ONNX model locally.
package emb

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config locates the runtime library, the model and its tokenizer.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

const defaultMaxSeqLen = 256

var (
	envMu   sync.Mutex
	envRefs int
)

// Encoder turns text into a mean-pooled, L2-normalised vector.
// Encode is safe for concurrent use.
type Encoder struct {
	mu        sync.Mutex
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	typeIDs   bool
	maxSeqLen int
}

// Init loads the tokenizer, starts the shared ORT environment and opens a session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("emb: model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("emb: tokenizer path is required")
	}
	e.maxSeqLen = cfg.MaxSeqLen
	if e.maxSeqLen <= 0 {
		e.maxSeqLen = defaultMaxSeqLen
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("emb: load tokenizer: %w", err)
	}
	e.tk = tk

	if err := acquireEnv(cfg.OrtDLL); err != nil {
		return err
	}

	inputs, _, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		releaseEnv()
		return fmt.Errorf("emb: inspect model: %w", err)
	}
	names := []string{"input_ids", "attention_mask"}
	for _, in := range inputs {
		if in.Name == "token_type_ids" {
			e.typeIDs = true
			names = append(names, in.Name)
		}
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, names, []string{"last_hidden_state"}, nil)
	if err != nil {
		releaseEnv()
		return fmt.Errorf("emb: open session: %w", err)
	}
	e.session = session
	return nil
}

// Close destroys the session and releases the environment reference.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return
	}
	_ = e.session.Destroy()
	e.session = nil
	releaseEnv()
}

// Encode embeds one text.
func (e *Encoder) Encode(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, errors.New("emb: encoder is closed")
	}
	enc, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("emb: tokenize: %w", err)
	}
	ids, mask, types := truncate(enc.Ids, enc.AttentionMask, enc.TypeIds, e.maxSeqLen)
	seqLen := int64(len(ids))
	if seqLen == 0 {
		return nil, errors.New("emb: empty token sequence")
	}
	shape := ort.NewShape(1, seqLen)

	var values []ort.Value
	defer func() {
		for _, v := range values {
			_ = v.Destroy()
		}
	}()
	for _, data := range [][]int{ids, mask, types} {
		if len(values) == 2 && !e.typeIDs {
			break
		}
		t, err := ort.NewTensor(shape, toInt64(data))
		if err != nil {
			return nil, fmt.Errorf("emb: input tensor: %w", err)
		}
		values = append(values, t)
	}

	outputs := []ort.Value{nil}
	if err := e.session.Run(values, outputs); err != nil {
		return nil, fmt.Errorf("emb: run: %w", err)
	}
	defer outputs[0].Destroy()
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("emb: unexpected output type %T", outputs[0])
	}
	dims := hidden.GetShape()
	if len(dims) != 3 {
		return nil, fmt.Errorf("emb: unexpected output shape %v", dims)
	}
	return meanPool(hidden.GetData(), mask, int(dims[2])), nil
}

func acquireEnv(lib string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("emb: init onnxruntime: %w", err)
		}
	}
	envRefs++
	return nil
}

func releaseEnv() {
	envMu.Lock()
	defer envMu.Unlock()
	envRefs--
	if envRefs == 0 {
		_ = ort.DestroyEnvironment()
	}
}

func truncate(ids, mask, types []int, max int) ([]int, []int, []int) {
	if len(types) != len(ids) {
		types = make([]int, len(ids))
	}
	if len(mask) != len(ids) {
		mask = make([]int, len(ids))
		for i := range mask {
			mask[i] = 1
		}
	}
	if len(ids) <= max {
		return ids, mask, types
	}
	// Keep the trailing special token ([SEP]).
	last := len(ids) - 1
	ids = append(append([]int{}, ids[:max-1]...), ids[last])
	mask = append(append([]int{}, mask[:max-1]...), mask[last])
	types = append(append([]int{}, types[:max-1]...), types[last])
	return ids, mask, types
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

// meanPool averages the token vectors under the attention mask and
// normalises the result to unit length.
func meanPool(hidden []float32, mask []int, dim int) []float32 {
	out := make([]float32, dim)
	var n float32
	for t, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for i, v := range row {
			out[i] += v
		}
		n++
	}
	if n == 0 {
		return out
	}
	var norm float64
	for i := range out {
		out[i] /= n
		norm += float64(out[i]) * float64(out[i])
	}
	if norm == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range out {
		out[i] *= inv
	}
	return out
}
