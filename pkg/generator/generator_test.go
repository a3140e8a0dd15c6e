package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/rand"
)

func roadTable() []tablesource.RoadRow {
	return []tablesource.RoadRow{
		{Pair: "1，2", Length: 100},
		{Pair: "2，3", Length: 150.5},
		{Pair: "3，4", Length: 80},
		{Pair: "bad pair", Length: 10},
		{Pair: "4，5", Length: 60},
		{Pair: "1，2", Length: 100},
		{Pair: "5,6", Length: 75},
		{Pair: "6，99", Length: 40},
	}
}

func TestParseNodePair(t *testing.T) {
	testCases := []struct {
		pair     string
		from, to int
		wantErr  bool
	}{
		{pair: "12，7", from: 12, to: 7},
		{pair: " 3 ， 4 ", from: 3, to: 4},
		{pair: "5,6", from: 5, to: 6},
		{pair: "5", wantErr: true},
		{pair: "a，b", wantErr: true},
		{pair: "1，2，3", wantErr: true},
		{pair: "", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.pair, func(t *testing.T) {
			from, to, err := ParseNodePair(tt.pair)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestLoadNetwork(t *testing.T) {
	edges, nodeIDs := LoadNetwork(roadTable(), zap.NewNop())

	require.Len(t, edges, 7)
	assert.Equal(t, instance.NewEdge(1, 2, 100), edges[0])
	assert.Equal(t, instance.NewEdge(4, 5, 60), edges[3])
	assert.Equal(t, edges[0], edges[4], "duplicate edges are kept")
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 99}, nodeIDs)
}

func TestAssignDepots(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	nodeIDs := []int{1, 2, 3, 4, 5}

	for trial := 0; trial < 100; trial++ {
		vehicle, drone, err := AssignDepots(rng, nodeIDs, 3, 5)
		require.NoError(t, err)
		require.Len(t, vehicle, 3)
		require.Len(t, drone, 5)

		for _, list := range [][]DepotSite{vehicle, drone} {
			seen := make(map[int]bool)
			for _, site := range list {
				assert.False(t, seen[site.ID], "site drawn twice within one list")
				seen[site.ID] = true
				assert.Contains(t, nodeIDs, site.ID)
				assert.GreaterOrEqual(t, site.Attr, instance.MinDepotAttr)
				assert.LessOrEqual(t, site.Attr, instance.MaxDepotAttr)
			}
		}
	}

	_, _, err := AssignDepots(rng, nodeIDs, 6, 0)
	assert.ErrorIs(t, err, util.ErrConfig)
}

func newTestGenerator() *Generator {
	return NewGenerator(demandTable(), roadTable(), zap.NewNop())
}

func TestGenerate(t *testing.T) {
	g := newTestGenerator()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, g.DepotCandidates())

	cfg := NewConfig(4, 3, 2, 2, instance.DefaultParams(), 2024)
	inst, err := g.Generate(cfg)
	require.NoError(t, err)

	assert.Len(t, inst.Demands, 4)
	assert.Len(t, inst.ExtraDemands, 3)
	assert.Len(t, inst.VehicleDepots, 2)
	assert.Len(t, inst.DroneDepots, 2)
	assert.Len(t, inst.Edges, 7)
	assert.Equal(t, instance.DefaultParams(), inst.Params)
	require.NoError(t, inst.Validate())

	coords := make(map[int]bool)
	for _, row := range demandTable() {
		coords[row.ID] = true
	}
	for _, n := range inst.Demands {
		assert.True(t, coords[n.ID])
	}
	for _, d := range inst.Depots() {
		assert.True(t, coords[d.ID], "depot %d has no coordinate", d.ID)
		assert.NotZero(t, d.X)
	}

	again, err := g.Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, inst, again, "same seed must give the same instance")
}

func TestGenerateWithoutDepots(t *testing.T) {
	inst, err := newTestGenerator().Generate(NewConfig(2, 1, 0, 0, instance.DefaultParams(), 7))
	require.NoError(t, err)
	assert.Empty(t, inst.VehicleDepots)
	assert.Empty(t, inst.DroneDepots)
	assert.Len(t, inst.Demands, 2)
}

func TestGenerateLogsDepotCandidatesWithoutCoordinates(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := NewGenerator(demandTable(), roadTable(), zap.New(core))

	_, err := g.Generate(NewConfig(2, 0, 1, 1, instance.DefaultParams(), 3))
	require.NoError(t, err)

	skips := logs.FilterMessage("network nodes without coordinates are not used as depots").All()
	require.Len(t, skips, 1)
	fields := skips[0].ContextMap()
	assert.EqualValues(t, 1, fields["skipped"], "node 99 has no row in the demand table")
	assert.EqualValues(t, 6, fields["candidates"])
}

func TestGenerateConfigErrors(t *testing.T) {
	g := newTestGenerator()
	params := instance.DefaultParams()

	badSpeed := params
	badSpeed.DroneSpeed = 0

	testCases := []struct {
		name string
		cfg  Config
	}{
		{name: "no demands", cfg: NewConfig(0, 1, 1, 1, params, 1)},
		{name: "negative extras", cfg: NewConfig(1, -1, 1, 1, params, 1)},
		{name: "too many demands", cfg: NewConfig(7, 0, 1, 1, params, 1)},
		{name: "too many depots", cfg: NewConfig(1, 0, 7, 0, params, 1)},
		{name: "zero drone speed", cfg: NewConfig(1, 0, 1, 0, badSpeed, 1)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.cfg)
			assert.ErrorIs(t, err, util.ErrConfig)
		})
	}
}

func TestGenerateBatch(t *testing.T) {
	g := newTestGenerator()
	dir := t.TempDir()
	cfg := NewConfig(3, 2, 1, 1, instance.DefaultParams(), 10)

	paths, err := g.GenerateBatch(cfg, 3, 2, filepath.Join(dir, "output_data_weighted.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "output_data_weighted_0.txt"),
		filepath.Join(dir, "output_data_weighted_1.txt"),
		filepath.Join(dir, "output_data_weighted_2.txt"),
	}, paths)

	for i, p := range paths {
		got, err := instance.ReadFile(p, zap.NewNop())
		require.NoError(t, err)

		jobCfg := cfg
		jobCfg.Seed = cfg.Seed + uint64(i)
		want, err := g.Generate(jobCfg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGenerateBatchWritesNothingOnConfigError(t *testing.T) {
	g := newTestGenerator()
	dir := t.TempDir()
	out := filepath.Join(dir, "output_data_weighted.txt")

	_, err := g.GenerateBatch(NewConfig(100, 0, 1, 0, instance.DefaultParams(), 1), 1, 1, out)
	assert.ErrorIs(t, err, util.ErrConfig)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatchPaths(t *testing.T) {
	assert.Equal(t, []string{"out.txt"}, BatchPaths("out.txt", 1))
	assert.Equal(t, []string{"data/out_0.txt.bz2", "data/out_1.txt.bz2"}, BatchPaths("data/out.txt.bz2", 2))
	assert.Equal(t, []string{"out_0", "out_1"}, BatchPaths("out", 2))
}
