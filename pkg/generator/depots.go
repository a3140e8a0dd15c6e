package generator

import (
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"golang.org/x/exp/rand"
)

// DepotSite is a sampled depot location before its coordinates are attached.
type DepotSite struct {
	ID   int
	Attr int
}

// AssignDepots samples vehicle and drone depot sites from nodeIDs.
// each list is drawn without replacement, but the two draws are independent: the same node may
// host a vehicle depot and a drone depot. every site gets its own attribute in [1,5].
func AssignDepots(rng *rand.Rand, nodeIDs []int, vehicleCount, droneCount int) ([]DepotSite, []DepotSite, error) {
	vehicle, err := sampleSites(rng, nodeIDs, vehicleCount)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrConfig, "vehicle depots")
	}
	drone, err := sampleSites(rng, nodeIDs, droneCount)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrConfig, "drone depots")
	}
	return vehicle, drone, nil
}

func sampleSites(rng *rand.Rand, nodeIDs []int, count int) ([]DepotSite, error) {
	ids, err := sampleWithoutReplacement(rng, nodeIDs, count)
	if err != nil {
		return nil, err
	}
	sites := make([]DepotSite, len(ids))
	for i, id := range ids {
		sites[i] = DepotSite{
			ID:   id,
			Attr: instance.MinDepotAttr + rng.Intn(instance.MaxDepotAttr-instance.MinDepotAttr+1),
		}
	}
	return sites, nil
}

// sampleWithoutReplacement is a partial Fisher-Yates shuffle over a copy of population.
func sampleWithoutReplacement(rng *rand.Rand, population []int, k int) ([]int, error) {
	if k < 0 || k > len(population) {
		return nil, util.WrapErrorf(nil, util.ErrConfig, "cannot draw %d of %d nodes", k, len(population))
	}
	pool := make([]int, len(population))
	copy(pool, population)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}
