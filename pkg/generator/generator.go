package generator

import (
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type Generator struct {
	demandTable []tablesource.DemandRow
	edges       []instance.Edge
	nodeIDs     []int
	coords      map[int]instance.Node
	log         *zap.Logger
}

// NewGenerator prepares the network and the coordinate lookup shared by every instance
// generated from the same pair of tables.
func NewGenerator(demandTable []tablesource.DemandRow, roadTable []tablesource.RoadRow, log *zap.Logger) *Generator {
	edges, nodeIDs := LoadNetwork(roadTable, log)

	coords := make(map[int]instance.Node, len(demandTable))
	for _, row := range demandTable {
		if _, ok := coords[row.ID]; ok {
			continue
		}
		coords[row.ID] = instance.NewNode(row.ID, row.X, row.Y)
	}

	return &Generator{
		demandTable: demandTable,
		edges:       edges,
		nodeIDs:     nodeIDs,
		coords:      coords,
		log:         log,
	}
}

// DepotCandidates returns the network node ids that have a coordinate in the demand table.
func (g *Generator) DepotCandidates() []int {
	candidates := make([]int, 0, len(g.nodeIDs))
	for _, id := range g.nodeIDs {
		if _, ok := g.coords[id]; ok {
			candidates = append(candidates, id)
		}
	}
	return candidates
}

// Generate builds one instance. all randomness comes from a source seeded with cfg.Seed,
// the same config always yields the same instance.
func (g *Generator) Generate(cfg Config) (*instance.Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	primary, err := SampleDemands(rng, g.demandTable, cfg.DemandCount)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrConfig, "demand sample")
	}
	demands := make([]instance.Node, len(primary))
	for i, row := range primary {
		demands[i] = instance.NewNode(row.ID, row.X, row.Y)
	}

	extras, err := GenerateExtraDemands(rng, g.demandTable, cfg.ExtraDemandCount)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrConfig, "extra demand sample")
	}

	candidates := g.DepotCandidates()
	if skipped := len(g.nodeIDs) - len(candidates); skipped > 0 {
		g.log.Warn("network nodes without coordinates are not used as depots",
			zap.Int("skipped", skipped), zap.Int("candidates", len(candidates)))
	}
	vehicleSites, droneSites, err := AssignDepots(rng, candidates, cfg.VehicleDepotCount, cfg.DroneDepotCount)
	if err != nil {
		return nil, err
	}

	inst := instance.NewInstance(cfg.Params, g.edges, demands,
		g.depots(vehicleSites, instance.VehicleDepot), g.depots(droneSites, instance.DroneDepot), extras)
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	g.log.Info("instance generated", zap.Uint64("seed", cfg.Seed),
		zap.Int("demands", len(inst.Demands)), zap.Int("extra_demands", len(inst.ExtraDemands)),
		zap.Int("vehicle_depots", len(inst.VehicleDepots)), zap.Int("drone_depots", len(inst.DroneDepots)))
	return inst, nil
}

func (g *Generator) depots(sites []DepotSite, kind instance.DepotKind) []instance.Depot {
	depots := make([]instance.Depot, len(sites))
	for i, site := range sites {
		depots[i] = instance.NewDepot(g.coords[site.ID], site.Attr, kind)
	}
	return depots
}
