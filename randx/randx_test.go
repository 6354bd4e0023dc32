package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Reproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Bool(), b.Bool())
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(26), b.IntN(26))
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestNew_SeedsDiffer(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 64; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 64)
}

func TestRanges(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := r.IntN(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
}

func TestScripted(t *testing.T) {
	s := &Scripted{Bools: []bool{true, false}, Floats: []float64{0.25}, Ints: []int{2}}

	assert.True(t, s.Bool())
	assert.False(t, s.Bool())
	assert.Equal(t, 0.25, s.Float64())
	assert.Equal(t, 2, s.IntN(3))
	assert.Equal(t, 0, s.Remaining())

	assert.Panics(t, func() { s.Bool() })
	assert.Panics(t, func() { (&Scripted{Ints: []int{5}}).IntN(3) })
}

var _ Source = (*Rand)(nil)
var _ Source = (*Scripted)(nil)
