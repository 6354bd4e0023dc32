package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/partition"
	"github.com/teranos/erbench/randx"
)

func TestAssign_Scripted(t *testing.T) {
	groups := []partition.Group{{1, 2}, {3}, {4, 5, 6}, {7}, {8}}

	// Round 1: f0 takes idx 2 {4,5,6} -> [{1,2},{3},{8},{7}]
	//          f1 takes idx 0 {1,2}   -> [{7},{3},{8}]
	// Round 2: f0 takes idx 1 {3}     -> [{7},{8}]
	//          f1 takes idx 1 {8}     -> [{7}]
	// Round 3: f0 takes idx 0 {7}
	rng := &randx.Scripted{Ints: []int{2, 0, 1, 1, 0}}

	folds, err := Assign(groups, 2, rng)
	require.NoError(t, err)

	assert.Equal(t, []Fold{{4, 5, 6, 3, 7}, {1, 2, 8}}, folds)
	assert.Empty(t, rng.Ints)
	assert.Equal(t, []partition.Group{{1, 2}, {3}, {4, 5, 6}, {7}, {8}}, groups, "input untouched")
}

func TestAssign_Properties(t *testing.T) {
	var groups []partition.Group
	next := 0
	for i := 0; i < 200; i++ {
		g := partition.Group{}
		for j := 0; j <= i%4; j++ {
			g = append(g, next)
			next++
		}
		groups = append(groups, g)
	}

	for _, k := range []int{1, 2, 3, 7, 250} {
		folds, err := Assign(groups, k, randx.New(42))
		require.NoError(t, err)
		require.Len(t, folds, k)

		foldOf := map[int]int{}
		for fi, f := range folds {
			for _, id := range f {
				_, dup := foldOf[id]
				require.False(t, dup, "k=%d: id %d in two folds", k, id)
				foldOf[id] = fi
			}
		}
		assert.Len(t, foldOf, next, "k=%d: every id assigned", k)

		for _, g := range groups {
			for _, id := range g {
				assert.Equal(t, foldOf[g[0]], foldOf[id], "k=%d: group split", k)
			}
		}
	}
}

func TestAssign_GroupCountsPerFold(t *testing.T) {
	groups := make([]partition.Group, 10)
	for i := range groups {
		groups[i] = partition.Group{i}
	}
	folds, err := Assign(groups, 3, randx.New(1))
	require.NoError(t, err)

	// 10 groups over 3 folds: 4, 3, 3
	assert.Len(t, folds[0], 4)
	assert.Len(t, folds[1], 3)
	assert.Len(t, folds[2], 3)
}

func TestAssign_Deterministic(t *testing.T) {
	groups := []partition.Group{{1}, {2, 3}, {4}, {5}, {6, 7, 8}}
	a, err := Assign(groups, 2, randx.New(7))
	require.NoError(t, err)
	b, err := Assign(groups, 2, randx.New(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAssign_Edges(t *testing.T) {
	folds, err := Assign(nil, 3, randx.New(1))
	require.NoError(t, err)
	assert.Equal(t, []Fold{nil, nil, nil}, folds)

	_, err = Assign(nil, 0, randx.New(1))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestBalance(t *testing.T) {
	mean, std := Balance([]Fold{{1, 2}, {3, 4, 5, 6}}, Clusters)
	assert.InDelta(t, 3.0, mean, 1e-12)
	assert.InDelta(t, 1.4142135623730951, std, 1e-12)

	mean, std = Balance([]Fold{{1, 2, 3}}, Clusters)
	assert.Equal(t, 3.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = Balance(nil, Clusters)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}
