package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
)

func TestCreate(t *testing.T) {
	s, err := NewDefaultAdam(1e-3).Create()
	require.NoError(t, err)
	require.IsType(t, &G.AdamSolver{}, s)

	s, err = NewVanilla(0.1, 1.0).Create()
	require.NoError(t, err)
	require.IsType(t, &G.VanillaSolver{}, s)

	_, err = Config{Type: "SGD", LearningRate: 1, Batch: 1}.Create()
	require.Error(t, err)

	bad := NewDefaultAdam(1e-3)
	bad.Beta1 = 1
	require.Error(t, bad.Validate())

	bad = NewVanilla(0, 0)
	require.Error(t, bad.Validate())
}

func TestUnmarshalJSON(t *testing.T) {
	var c Config
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Type": "Adam", "LearningRate": 0.01}`), &c))

	want := NewDefaultAdam(0.01)
	require.Equal(t, want, c)

	data, err := json.Marshal(NewVanilla(0.5, 2))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &c))
	require.Equal(t, NewVanilla(0.5, 2), c)

	require.Error(t, json.Unmarshal([]byte(`{"Type": "Other"}`), &c))
}
