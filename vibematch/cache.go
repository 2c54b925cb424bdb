package vibematch

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// CacheOptions configures the embedding cache.
type CacheOptions struct {
	// Dir holds the badger files. Required unless InMemory is set.
	Dir      string
	InMemory bool
	Logger   zerolog.Logger
}

// CachedEmbedder stores vectors in badger keyed by sha1(model|text), so a
// rerun over the same submissions never calls the model twice.
type CachedEmbedder struct {
	inner Embedder
	db    *badger.DB
	log   zerolog.Logger
}

// NewCachedEmbedder opens the cache and wraps inner. Closing the result
// closes inner as well.
func NewCachedEmbedder(inner Embedder, opts CacheOptions) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, errors.New("embedder is required")
	}
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("cache dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{opts.Logger})
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	return &CachedEmbedder{
		inner: inner,
		db:    db,
		log:   opts.Logger.With().Str("component", "embed_cache").Logger(),
	}, nil
}

// ModelID returns the wrapped model's identifier.
func (c *CachedEmbedder) ModelID() string {
	return c.inner.ModelID()
}

// Close closes the cache and the wrapped embedder.
func (c *CachedEmbedder) Close() error {
	return errors.Join(c.db.Close(), c.inner.Close())
}

// EmbedTexts serves hits from badger and embeds the distinct misses in one
// batch call.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([][]byte, len(texts))
	for i, t := range texts {
		keys[i] = c.key(NormalizeText(t))
	}

	err := c.db.View(func(txn *badger.Txn) error {
		for i, k := range keys {
			item, err := txn.Get(k)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			vec, err := decodeVector(raw)
			if err != nil {
				c.log.Warn().Err(err).Msg("dropping corrupt cache entry")
				continue
			}
			out[i] = vec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read embedding cache: %w", err)
	}

	var missTexts []string
	missIdx := make(map[string][]int)
	for i, t := range texts {
		if out[i] != nil {
			continue
		}
		k := string(keys[i])
		if _, seen := missIdx[k]; !seen {
			missTexts = append(missTexts, t)
		}
		missIdx[k] = append(missIdx[k], i)
	}
	if len(missTexts) == 0 {
		c.log.Debug().Int("hits", len(texts)).Msg("embedding cache fully warm")
		return out, nil
	}

	vecs, err := c.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for j, t := range missTexts {
		k := c.key(NormalizeText(t))
		for _, i := range missIdx[string(k)] {
			out[i] = cloneVector(vecs[j])
		}
		if vecs[j] == nil {
			continue
		}
		if err := wb.Set(k, encodeVector(vecs[j])); err != nil {
			return nil, fmt.Errorf("write embedding cache: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return nil, fmt.Errorf("flush embedding cache: %w", err)
	}
	c.log.Debug().
		Int("hits", len(texts)-len(missTexts)).
		Int("misses", len(missTexts)).
		Msg("embedding cache updated")
	return out, nil
}

func (c *CachedEmbedder) key(text string) []byte {
	h := sha1.New()
	_, _ = io.WriteString(h, c.inner.ModelID())
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return []byte(hex.EncodeToString(h.Sum(nil)))
}

// encodeVector writes a little-endian length prefix followed by the values.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4+len(vec)*4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(vec)))
	off := 4
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, errors.New("cache entry too small")
	}
	length := int(binary.LittleEndian.Uint32(data[:4]))
	data = data[4:]
	if len(data) != length*4 {
		return nil, errors.New("cache entry length mismatch")
	}
	vec := make([]float32, length)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
	}
	return vec, nil
}

// badgerLogger forwards badger warnings and errors to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{}) {
	l.log.Error().Str("component", "badger").Msgf(f, v...)
}

func (l badgerLogger) Warningf(f string, v ...interface{}) {
	l.log.Warn().Str("component", "badger").Msgf(f, v...)
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
