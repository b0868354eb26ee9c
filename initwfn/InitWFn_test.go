package initwfn

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestGlorotUSeeded(t *testing.T) {
	init, err := NewGlorotU(1.0)
	require.NoError(t, err)

	a := init.InitWFn(42)(tensor.Float64, 6, 4).([]float64)
	b := init.InitWFn(42)(tensor.Float64, 6, 4).([]float64)
	c := init.InitWFn(43)(tensor.Float64, 6, 4).([]float64)

	require.Len(t, a, 24)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	limit := math.Sqrt(6.0 / 10.0)
	for _, w := range a {
		require.LessOrEqual(t, math.Abs(w), limit)
	}
}

func TestHeUBounds(t *testing.T) {
	init, err := NewHeU(2.0)
	require.NoError(t, err)

	weights := init.InitWFn(1)(tensor.Float64, 24, 3).([]float64)
	limit := 2.0 * math.Sqrt(6.0/24.0)
	for _, w := range weights {
		require.LessOrEqual(t, math.Abs(w), limit)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	init, err := NewHeU(0.5)
	require.NoError(t, err)

	data, err := json.Marshal(init)
	require.NoError(t, err)

	var decoded InitWFn
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, HeU, decoded.Type)
	require.Equal(t, HeUConfig{Gain: 0.5}, decoded.Config)

	require.Error(t, json.Unmarshal([]byte(`{"Type": "Nope"}`), &decoded))
}

func TestZeroes(t *testing.T) {
	init, err := NewZeroes()
	require.NoError(t, err)
	require.Equal(t, Zeroes, init.Type)

	weights := init.InitWFn(5)(tensor.Float64, 2, 3).([]float64)
	require.Equal(t, make([]float64, 6), weights)
}

func TestInvalidGain(t *testing.T) {
	_, err := NewGlorotU(0)
	require.Error(t, err)
	_, err = NewHeU(-1)
	require.Error(t, err)
}
