package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/dronedelivery/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[NodeRef]
}

// NodeRef is a plotted node: a point id and the layer it is drawn in.
type NodeRef struct {
	ID    int
	Layer string
	Lat   float64
	Lon   float64
}

func NewNodeRef(id int, layer string, lat, lon float64) NodeRef {
	return NodeRef{ID: id, Layer: layer, Lat: lat, Lon: lon}
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[NodeRef]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every node as a degenerate (point) rectangle.
func (rt *Rtree) Build(nodes []NodeRef, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("nodes", len(nodes)))
	for _, n := range nodes {
		p := [2]float64{n.Lon, n.Lat}
		rt.tr.Insert(p, p, n)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchBound returns all nodes inside b, ordered by layer then id.
func (rt *Rtree) SearchBound(b orb.Bound) []NodeRef {
	results := make([]NodeRef, 0, 16)
	rt.tr.Search([2]float64{b.Min.Lon(), b.Min.Lat()}, [2]float64{b.Max.Lon(), b.Max.Lat()},
		func(min, max [2]float64, data NodeRef) bool {
			results = append(results, data)
			return true
		})
	sortRefs(results)
	return results
}

// SearchWithinRadius search for plotted nodes within radius (in km) from the query point (qLat, qLon),
// nearest first, at most limit results.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, limit int) []NodeRef {
	lowerLat, _ := geo.GetDestinationPoint(qLat, qLon, 180, radius)
	upperLat, _ := geo.GetDestinationPoint(qLat, qLon, 0, radius)
	_, lowerLon := geo.GetDestinationPoint(qLat, qLon, 270, radius)
	_, upperLon := geo.GetDestinationPoint(qLat, qLon, 90, radius)

	results := make([]NodeRef, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data NodeRef) bool {
			if geo.CalculateHaversineDistance(qLat, qLon, data.Lat, data.Lon) <= radius {
				results = append(results, data)
			}
			return true
		})

	sort.SliceStable(results, func(i, j int) bool {
		di := geo.CalculateHaversineDistance(qLat, qLon, results[i].Lat, results[i].Lon)
		dj := geo.CalculateHaversineDistance(qLat, qLon, results[j].Lat, results[j].Lon)
		if di != dj {
			return di < dj
		}
		return lessRef(results[i], results[j])
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortRefs(refs []NodeRef) {
	sort.Slice(refs, func(i, j int) bool {
		return lessRef(refs[i], refs[j])
	})
}

func lessRef(a, b NodeRef) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	return a.ID < b.ID
}
