package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"opposite vectors", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"orthogonal vectors", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"scaled vectors", []float32{1, 2, 3}, []float32{2, 4, 6}, 1.0},
		{"different lengths", []float32{1, 2, 3}, []float32{1, 2}, 0.0},
		{"empty vectors", []float32{}, []float32{}, 0.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CosineSimilarity(tt.a, tt.b)
			assert.True(t, math.Abs(got-tt.expected) < 1e-6, "got %f want %f", got, tt.expected)
		})
	}
}

func TestTopKStable(t *testing.T) {
	items := []ScoredItem[string]{
		{Item: "a", Score: 0.5},
		{Item: "b", Score: 0.9},
		{Item: "c", Score: 0.5},
		{Item: "d", Score: 0.1},
	}

	top := TopKStable(items, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Item)
	assert.Equal(t, "a", top[1].Item)
	assert.Equal(t, "c", top[2].Item)

	assert.Len(t, TopKStable(items, 10), 4)
	assert.Nil(t, TopKStable(items, 0))
	assert.Equal(t, "a", items[0].Item)
}

func TestDedupeFold(t *testing.T) {
	got := DedupeFold([]string{"Abortion", " abortion ", "", "Reproductive Rights", "ABORTION", "reproductive rights"})
	assert.Equal(t, []string{"Abortion", "Reproductive Rights"}, got)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Reproductive Rights", "rights"))
	assert.True(t, ContainsFold("rag", "Retrieval RAG pipeline"))
	assert.False(t, ContainsFold("graph", "vector"))
}

func TestRecoverAsError(t *testing.T) {
	fn := func() (err error) {
		defer RecoverAsError(&err)
		panic("test panic")
	}

	err := fn()
	require.Error(t, err)
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "test panic", panicErr.Value)
	assert.NotEmpty(t, panicErr.StackTrace)
}

func TestSafeGo(t *testing.T) {
	errCh := make(chan error, 1)
	SafeGo(func() { panic("boom") }, func(err error) { errCh <- err })

	err := <-errCh
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
}
