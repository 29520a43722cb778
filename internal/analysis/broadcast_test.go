package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	v := Series{Index: []string{"a", "b"}, Values: []float64{2, 3}}
	h, err := NewTable([]string{"a", "b"}, []string{"x", "y"}, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	got, err := Broadcast(v, h)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Index)
	assert.Equal(t, []string{"x", "y"}, got.Columns)
	assert.Equal(t, []float64{2, 2}, got.Row(0))
	assert.Equal(t, []float64{3, 3}, got.Row(1))

	// inputs are left alone
	assert.Equal(t, 1.0, h.At(0, 0))
	assert.Equal(t, []float64{2, 3}, v.Values)
}

func TestBroadcastDimensionMismatch(t *testing.T) {
	v := Series{Index: []string{"a"}, Values: []float64{2}}
	h, err := NewTable([]string{"a", "b"}, []string{"x"}, []float64{1, 1})
	require.NoError(t, err)

	_, err = Broadcast(v, h)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewTable([]string{"a"}, []string{"x", "y"}, []float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBroadcastEmpty(t *testing.T) {
	got, err := Broadcast(Series{}, Table{Columns: []string{"x"}})
	require.NoError(t, err)
	assert.Nil(t, got.Data)
	assert.Equal(t, []string{"x"}, got.Columns)

	h, err := NewTable([]string{"a", "b"}, []string{}, nil)
	require.NoError(t, err)
	got, err = Broadcast(Series{Index: []string{"a", "b"}, Values: []float64{2, 3}}, h)
	require.NoError(t, err)
	assert.Nil(t, got.Data)
	assert.Equal(t, []string{"a", "b"}, got.Index)
	assert.Empty(t, got.Columns)

	_, err = Broadcast(Series{Index: []string{"a"}, Values: []float64{2}}, h)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
