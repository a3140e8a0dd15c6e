package generator

import (
	"math"
	"sort"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"golang.org/x/exp/rand"
)

type keyedIndex struct {
	index int
	key   float64
}

// WeightedSample draws k distinct indices of weights without replacement, each draw
// proportional to the weight among the indices not drawn yet.
//
// Efraimidis & Spirakis, "Weighted random sampling with a reservoir" (2006): every item gets
// the key log(u)/w with u uniform in (0,1]; the k largest keys form the sample. the indices are
// returned in draw order (descending key). zero weight items are never drawn.
func WeightedSample(rng *rand.Rand, weights []float64, k int) ([]int, error) {
	if k < 0 {
		return nil, util.WrapErrorf(nil, util.ErrConfig, "sample size %d is negative", k)
	}
	positive := 0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, util.WrapErrorf(nil, util.ErrConfig, "weight %v at index %d is not a finite non-negative number", w, i)
		}
		if w > 0 {
			positive++
		}
	}
	if util.Sum(weights) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrConfig, "total weight is zero")
	}
	if k > positive {
		return nil, util.WrapErrorf(nil, util.ErrConfig, "sample size %d exceeds the %d nodes with positive demand", k, positive)
	}

	keys := make([]keyedIndex, 0, positive)
	for i, w := range weights {
		if w == 0 {
			continue
		}
		u := 1.0 - rng.Float64()
		keys = append(keys, keyedIndex{index: i, key: math.Log(u) / w})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].key > keys[j].key
	})

	sample := make([]int, k)
	for i := 0; i < k; i++ {
		sample[i] = keys[i].index
	}
	return sample, nil
}

// SampleDemands draws k rows of table weighted by their demand.
func SampleDemands(rng *rand.Rand, table []tablesource.DemandRow, k int) ([]tablesource.DemandRow, error) {
	weights := make([]float64, len(table))
	for i, row := range table {
		weights[i] = row.Demand
	}
	indices, err := WeightedSample(rng, weights, k)
	if err != nil {
		return nil, err
	}
	rows := make([]tablesource.DemandRow, len(indices))
	for i, idx := range indices {
		rows[i] = table[idx]
	}
	return rows, nil
}

// GenerateExtraDemands draws count demand rows independently of the primary sample (a node may
// appear in both), gives each a uniform arrival minute in [1,1440) and sorts them by arrival.
func GenerateExtraDemands(rng *rand.Rand, table []tablesource.DemandRow, count int) ([]instance.ExtraDemand, error) {
	rows, err := SampleDemands(rng, table, count)
	if err != nil {
		return nil, err
	}

	extras := make([]instance.ExtraDemand, len(rows))
	for i, row := range rows {
		arrival := instance.MinArrivalTime + rng.Intn(instance.MaxArrivalTime-instance.MinArrivalTime)
		extras[i] = instance.NewExtraDemand(instance.NewNode(row.ID, row.X, row.Y), arrival)
	}
	sort.SliceStable(extras, func(i, j int) bool {
		return extras[i].ArrivalTime < extras[j].ArrivalTime
	})
	return extras, nil
}
