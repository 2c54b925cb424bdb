package emb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanPoolIgnoresPadding(t *testing.T) {
	hidden := []float32{
		3, 0,
		0, 4,
		100, 100,
	}
	got := meanPool(hidden, []int{1, 1, 0}, 2)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)
}

func TestMeanPoolUnitLength(t *testing.T) {
	got := meanPool([]float32{1, 2, 3, 4, 5, 6}, []int{1, 1}, 3)
	var sum float64
	for _, v := range got {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestMeanPoolEmptyMask(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, meanPool([]float32{1, 1}, []int{0}, 2))
}

func TestTruncateKeepsLastToken(t *testing.T) {
	ids, mask, types := truncate([]int{101, 5, 6, 7, 8, 102}, []int{1, 1, 1, 1, 1, 1}, nil, 4)
	assert.Equal(t, []int{101, 5, 6, 102}, ids)
	assert.Equal(t, []int{1, 1, 1, 1}, mask)
	assert.Equal(t, []int{0, 0, 0, 0}, types)
}

func TestTruncateShortInput(t *testing.T) {
	ids, mask, _ := truncate([]int{101, 102}, nil, nil, 8)
	assert.Equal(t, []int{101, 102}, ids)
	assert.Equal(t, []int{1, 1}, mask)
}

func TestInitRequiresPaths(t *testing.T) {
	var e Encoder
	assert.Error(t, e.Init(Config{}))
	assert.Error(t, e.Init(Config{ModelPath: "model.onnx"}))
}

func TestEncodeAfterCloseFails(t *testing.T) {
	var e Encoder
	e.Close()
	_, err := e.Encode("hello")
	assert.Error(t, err)
}
