package generator

import (
	"sort"
	"testing"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestWeightedSampleValid(t *testing.T) {
	weights := []float64{3, 1, 0, 8, 2.5, 0.1, 7}
	rng := rand.New(rand.NewSource(7))

	for k := 0; k <= 6; k++ {
		for trial := 0; trial < 50; trial++ {
			sample, err := WeightedSample(rng, weights, k)
			require.NoError(t, err)
			require.Len(t, sample, k)

			seen := make(map[int]bool, k)
			for _, idx := range sample {
				assert.False(t, seen[idx], "duplicate index %d", idx)
				assert.NotEqual(t, 2, idx, "zero weight index drawn")
				seen[idx] = true
			}
		}
	}
}

func TestWeightedSampleErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	testCases := []struct {
		name    string
		weights []float64
		k       int
	}{
		{name: "k exceeds population", weights: []float64{1, 2}, k: 3},
		{name: "k exceeds positive weights", weights: []float64{1, 0, 0}, k: 2},
		{name: "zero total weight", weights: []float64{0, 0}, k: 1},
		{name: "empty population", weights: nil, k: 0},
		{name: "negative weight", weights: []float64{1, -1}, k: 1},
		{name: "negative k", weights: []float64{1}, k: -1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WeightedSample(rng, tt.weights, tt.k)
			assert.ErrorIs(t, err, util.ErrConfig)
		})
	}
}

func TestWeightedSampleProportional(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := []float64{1, 9}
	heavy := 0
	trials := 2000
	for i := 0; i < trials; i++ {
		sample, err := WeightedSample(rng, weights, 1)
		require.NoError(t, err)
		if sample[0] == 1 {
			heavy++
		}
	}
	ratio := float64(heavy) / float64(trials)
	assert.InDelta(t, 0.9, ratio, 0.05)
}

func TestWeightedSampleDeterministic(t *testing.T) {
	weights := []float64{5, 1, 4, 2, 8, 3}
	a, err := WeightedSample(rand.New(rand.NewSource(99)), weights, 4)
	require.NoError(t, err)
	b, err := WeightedSample(rand.New(rand.NewSource(99)), weights, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func demandTable() []tablesource.DemandRow {
	return []tablesource.DemandRow{
		{Index: 0, ID: 1, X: 104.01, Y: 30.61, Demand: 4},
		{Index: 1, ID: 2, X: 104.02, Y: 30.62, Demand: 1},
		{Index: 2, ID: 3, X: 104.03, Y: 30.63, Demand: 6},
		{Index: 3, ID: 4, X: 104.04, Y: 30.64, Demand: 2},
		{Index: 4, ID: 5, X: 104.05, Y: 30.65, Demand: 3},
		{Index: 5, ID: 6, X: 104.06, Y: 30.66, Demand: 5},
	}
}

func TestGenerateExtraDemands(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		extras, err := GenerateExtraDemands(rng, demandTable(), 5)
		require.NoError(t, err)
		require.Len(t, extras, 5)

		assert.True(t, sort.SliceIsSorted(extras, func(i, j int) bool {
			return extras[i].ArrivalTime < extras[j].ArrivalTime
		}))
		for _, ed := range extras {
			assert.GreaterOrEqual(t, ed.ArrivalTime, instance.MinArrivalTime)
			assert.Less(t, ed.ArrivalTime, instance.MaxArrivalTime)
		}
	}

	_, err := GenerateExtraDemands(rng, demandTable(), 7)
	assert.ErrorIs(t, err, util.ErrConfig)
}
