package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_AllSourcesInOrder(t *testing.T) {
	r := DefaultRegistry(testScorer())
	assert.Equal(t,
		[]string{"axisdirect", "icicidirect", "fivepaisa", "kotak", "sharekhan", "moneycontrol"},
		r.Names(),
	)
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry(testScorer())

	a, err := r.Get("moneycontrol")
	require.NoError(t, err)
	assert.Equal(t, "moneycontrol", a.Name())
	assert.NotEmpty(t, a.URL())

	_, err = r.Get("nope")
	assert.Error(t, err)
}

func TestRegistry_SelectSubset(t *testing.T) {
	r := DefaultRegistry(testScorer())

	selected, err := r.Select([]string{"sharekhan", "axisdirect"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "sharekhan", selected[0].Name())
	assert.Equal(t, "axisdirect", selected[1].Name())
}

func TestRegistry_SelectEmptyMeansAll(t *testing.T) {
	r := DefaultRegistry(testScorer())

	selected, err := r.Select(nil)
	require.NoError(t, err)
	assert.Len(t, selected, 6)
}

func TestRegistry_SelectUnknownFails(t *testing.T) {
	r := DefaultRegistry(testScorer())

	_, err := r.Select([]string{"moneycontrol", "bogus"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
