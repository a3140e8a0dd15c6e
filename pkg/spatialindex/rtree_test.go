package spatialindex

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTree() *Rtree {
	rt := NewRtree()
	rt.Build([]NodeRef{
		NewNodeRef(1, "demand", 30.60, 104.00),
		NewNodeRef(2, "demand", 30.61, 104.01),
		NewNodeRef(3, "extra", 30.70, 104.20),
		NewNodeRef(7, "vehicle_depot", 30.605, 104.005),
		NewNodeRef(2, "drone_depot", 30.61, 104.01),
	}, zap.NewNop())
	return rt
}

func TestSearchBound(t *testing.T) {
	rt := testTree()
	require.Equal(t, 5, rt.Len())

	got := rt.SearchBound(orb.Bound{Min: orb.Point{103.99, 30.59}, Max: orb.Point{104.02, 30.62}})
	assert.Equal(t, []NodeRef{
		NewNodeRef(1, "demand", 30.60, 104.00),
		NewNodeRef(2, "demand", 30.61, 104.01),
		NewNodeRef(2, "drone_depot", 30.61, 104.01),
		NewNodeRef(7, "vehicle_depot", 30.605, 104.005),
	}, got)

	assert.Empty(t, rt.SearchBound(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}))
}

func TestSearchWithinRadius(t *testing.T) {
	rt := testTree()

	got := rt.SearchWithinRadius(30.60, 104.00, 2.0, 0)
	require.Len(t, got, 4)
	assert.Equal(t, 1, got[0].ID, "nearest first")
	assert.Equal(t, 7, got[1].ID)
	assert.Equal(t, "demand", got[2].Layer)
	assert.Equal(t, "drone_depot", got[3].Layer)

	limited := rt.SearchWithinRadius(30.60, 104.00, 2.0, 2)
	assert.Len(t, limited, 2)

	near := rt.SearchWithinRadius(30.60, 104.00, 0.1, 0)
	require.Len(t, near, 1)
	assert.Equal(t, 1, near[0].ID)
}
