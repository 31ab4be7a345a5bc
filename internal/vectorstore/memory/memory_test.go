package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

func chunks(ids ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(ids))
	for i, id := range ids {
		out[i] = domain.Chunk{ID: id, Text: id}
	}
	return out
}

func TestSearchEmptyIndexReturnsNothing(t *testing.T) {
	s := NewStorage(L2)
	res, err := s.Search(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Zero(t, s.Len())
}

func TestSearchOrdersByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(Cosine)
	require.NoError(t, s.Add(ctx, chunks("a", "b", "c"), [][]float64{{1, 0}, {0, 1}, {1, 1}}))

	res, err := s.Search(ctx, []float64{0.9, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Chunk.ID)
	assert.Equal(t, "c", res[1].Chunk.ID)
	assert.Greater(t, res[0].Score, res[1].Score)
}

func TestSearchOrdersByL2(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(L2)
	// Cosine would tie far and near; L2 prefers the closer point.
	require.NoError(t, s.Add(ctx, chunks("far", "near"), [][]float64{{10, 0}, {1, 0}}))

	res, err := s.Search(ctx, []float64{1.5, 0}, 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "near", res[0].Chunk.ID)
	assert.InDelta(t, -0.5, res[0].Score, 1e-9)
}

func TestSearchDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(L2)
	require.NoError(t, s.Add(ctx, chunks("a", "b"), [][]float64{{1, 0}, {0, 1}}))
	_, err := s.Search(ctx, []float64{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "a", s.chunks[0].ID)
}

func TestAddRejectsMismatches(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(L2)
	assert.Error(t, s.Add(ctx, chunks("a"), nil))
	require.NoError(t, s.Add(ctx, chunks("a"), [][]float64{{1, 2}}))
	assert.Error(t, s.Add(ctx, chunks("b"), [][]float64{{1, 2, 3}}))
	_, err := s.Search(ctx, []float64{1}, 1)
	assert.Error(t, err)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("cosine")
	require.NoError(t, err)
	assert.Equal(t, "Cosine", m.QdrantDistance())
	m, err = ParseMetric("l2")
	require.NoError(t, err)
	assert.Equal(t, "Euclid", m.QdrantDistance())
	_, err = ParseMetric("dot")
	assert.Error(t, err)
}
