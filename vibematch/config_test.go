package vibematch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/vibematch/matcher"
)

func isolateCache(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("VIBEMATCH_EMBEDDER__CACHE_DIR", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	cacheDir := isolateCache(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Embedder.CacheDir = cacheDir
	assert.Equal(t, want, cfg)
	assert.DirExists(t, cacheDir)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	isolateCache(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `matcher:
  strategy: shortlist
  shortlist:
    size: 5
  labels:
    bands:
      - min: 5
        label: High
      - min: 2
        label: Low
embedder:
  provider: none
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("VIBEMATCH_MATCHER__FLOOR__VALUE", "0.25")
	t.Setenv("VIBEMATCH_MATCHER__CYCLE", "S, E, M, A, L, F")
	t.Setenv("VIBEMATCH_SERVER__ADDR", ":9999")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, matcher.StrategyShortlist, cfg.Matcher.Strategy)
	assert.Equal(t, 5, cfg.Matcher.Shortlist.Size)
	assert.Equal(t, 0.05, cfg.Matcher.Shortlist.RerankWeight)
	assert.Equal(t, []matcher.Band{{Min: 5, Label: "High"}, {Min: 2, Label: "Low"}}, cfg.Matcher.Labels.Bands)
	assert.Equal(t, 0.25, cfg.Matcher.Floor.Value)
	assert.Equal(t, []string{"S", "E", "M", "A", "L", "F"}, cfg.Matcher.Cycle)
	assert.Equal(t, "none", cfg.Embedder.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	isolateCache(t)
	cases := map[string]string{
		"provider":   "embedder:\n  provider: word2vec\n",
		"model path": "embedder:\n  provider: onnx\n  model_path: \"\"\n",
		"log level":  "log:\n  level: loud\n",
		"bands":      "matcher:\n  labels:\n    bands: []\n",
		"scale":      "matcher:\n  weights:\n    similarity_scale: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	isolateCache(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Matcher.Strategy = matcher.StrategyShortlist
	cfg.Matcher.Weights.Temporal = 0.2
	cfg.Embedder.CacheDir = filepath.Join(t.TempDir(), "c")
	cfg.Columns.NameColumn = "#2"

	require.NoError(t, SaveConfig(path, cfg))
	assert.NoFileExists(t, path+".tmp")

	t.Setenv("VIBEMATCH_EMBEDDER__CACHE_DIR", cfg.Embedder.CacheDir)
	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Matcher.Shortlist.Size = 0
	err := SaveConfig(filepath.Join(t.TempDir(), "config.yaml"), cfg)
	assert.ErrorIs(t, err, matcher.ErrInvalidConfig)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "matcher.floor.value", envKey("VIBEMATCH_MATCHER__FLOOR__VALUE"))
	assert.Equal(t, "embedder.cache_dir", envKey("VIBEMATCH_EMBEDDER__CACHE_DIR"))
}
