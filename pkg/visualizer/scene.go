package visualizer

import (
	"errors"
	"io/fs"
	"os"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/result"
	"github.com/lintang-b-s/dronedelivery/pkg/spatialindex"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

type Layer string

const (
	LayerDemand       Layer = "demand"
	LayerExtra        Layer = "extra"
	LayerVehicleDepot Layer = "vehicle_depot"
	LayerDroneDepot   Layer = "drone_depot"
)

var layers = []Layer{LayerDemand, LayerExtra, LayerVehicleDepot, LayerDroneDepot}

type Point struct {
	ID    int
	Layer Layer
	X, Y  float64
}

// Segment is one straight leg of a route between two consecutive resolvable task ids.
type Segment struct {
	RouteIndex int
	RouteID    int
	Kind       instance.DepotKind
	// TaskPos is the position of From in the route's task list.
	TaskPos  int
	From, To int
	X1, Y1   float64
	X2, Y2   float64
	Color    int
}

// SkippedPair is a consecutive task pair that could not be drawn.
type SkippedPair struct {
	RouteIndex int
	RouteID    int
	From, To   int
}

// CoordinateIndex maps a node id to its (lon, lat) position.
type CoordinateIndex map[int]orb.Point

// BuildCoordinateIndex indexes demands, then extras, then depots. colliding ids keep the last written position.
func BuildCoordinateIndex(demands []instance.Node, extras []instance.ExtraDemand, depots []instance.Depot) CoordinateIndex {
	index := make(CoordinateIndex, len(demands)+len(extras)+len(depots))
	for _, n := range demands {
		index[n.ID] = orb.Point{n.X, n.Y}
	}
	for _, e := range extras {
		index[e.ID] = orb.Point{e.X, e.Y}
	}
	for _, d := range depots {
		index[d.ID] = orb.Point{d.X, d.Y}
	}
	return index
}

// ReconstructSegments turns every route with at least two tasks into straight segments. a pair with an
// endpoint missing from index is skipped and reported, the rest of the route is still reconstructed.
func ReconstructSegments(routes []result.Route, index CoordinateIndex) ([]Segment, []SkippedPair) {
	var (
		segments []Segment
		skipped  []SkippedPair
	)
	for i, route := range routes {
		if len(route.Tasks) < 2 {
			continue
		}
		for j := 0; j+1 < len(route.Tasks); j++ {
			from, to := route.Tasks[j], route.Tasks[j+1]
			p1, ok1 := index[from]
			p2, ok2 := index[to]
			if !ok1 || !ok2 {
				skipped = append(skipped, SkippedPair{RouteIndex: i, RouteID: route.ID, From: from, To: to})
				continue
			}
			segments = append(segments, Segment{
				RouteIndex: i,
				RouteID:    route.ID,
				Kind:       route.Kind,
				TaskPos:    j,
				From:       from,
				To:         to,
				X1:         p1.Lon(),
				Y1:         p1.Lat(),
				X2:         p2.Lon(),
				Y2:         p2.Lat(),
				Color:      i % len(Palette),
			})
		}
	}
	return segments, skipped
}

// ParseInstance reads an instance file and returns the plottable parts, depots vehicle first.
func ParseInstance(filename string, log *zap.Logger) ([]instance.Node, []instance.ExtraDemand, []instance.Depot, error) {
	inst, err := instance.ReadFile(filename, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return inst.Demands, inst.ExtraDemands, inst.Depots(), nil
}

// Scene is everything one rendering needs. it is immutable once built.
type Scene struct {
	Points   []Point
	Routes   []result.Route
	Index    CoordinateIndex
	Segments []Segment
	Skipped  []SkippedPair
	Viewport *orb.Bound

	Demands []instance.Node
	Extras  []instance.ExtraDemand
	Depots  []instance.Depot

	nodes *spatialindex.Rtree
}

func NewScene(demands []instance.Node, extras []instance.ExtraDemand, depots []instance.Depot,
	routes []result.Route, log *zap.Logger) *Scene {
	index := BuildCoordinateIndex(demands, extras, depots)
	segments, skipped := ReconstructSegments(routes, index)

	points := make([]Point, 0, len(demands)+len(extras)+len(depots))
	for _, n := range demands {
		points = append(points, Point{ID: n.ID, Layer: LayerDemand, X: n.X, Y: n.Y})
	}
	for _, e := range extras {
		points = append(points, Point{ID: e.ID, Layer: LayerExtra, X: e.X, Y: e.Y})
	}
	for _, d := range depots {
		layer := LayerVehicleDepot
		if d.Kind == instance.DroneDepot {
			layer = LayerDroneDepot
		}
		points = append(points, Point{ID: d.ID, Layer: layer, X: d.X, Y: d.Y})
	}

	refs := make([]spatialindex.NodeRef, len(points))
	for i, p := range points {
		refs[i] = spatialindex.NewNodeRef(p.ID, string(p.Layer), p.Y, p.X)
	}
	nodes := spatialindex.NewRtree()
	nodes.Build(refs, log)

	s := &Scene{
		Points:   points,
		Routes:   routes,
		Index:    index,
		Segments: segments,
		Skipped:  skipped,
		Demands:  demands,
		Extras:   extras,
		Depots:   depots,
		nodes:    nodes,
	}
	s.warnPartial(log)
	return s
}

func (s *Scene) warnPartial(log *zap.Logger) {
	for _, sp := range s.Skipped {
		log.Warn("route segment skipped",
			zap.Error(util.WrapErrorf(nil, util.ErrPartialData, "node id %d or %d has no coordinate", sp.From, sp.To)),
			zap.Int("route", sp.RouteID))
	}
	for _, r := range s.Routes {
		if !r.HasTasks {
			log.Warn("route has no task sequence",
				zap.Error(util.ErrPartialData), zap.Int("route", r.ID), zap.String("kind", r.Kind.String()))
		}
	}
}

// Nearby returns the plotted nodes within radiusKM of (lat, lon), nearest first.
func (s *Scene) Nearby(lat, lon, radiusKM float64, limit int) []spatialindex.NodeRef {
	return s.nodes.SearchWithinRadius(lat, lon, radiusKM, limit)
}

// WithViewport returns a copy of s limited to b: points outside are dropped, segments are kept when
// at least one end lies inside.
func (s *Scene) WithViewport(b orb.Bound) *Scene {
	inside := make(map[Point]bool)
	for _, ref := range s.nodes.SearchBound(b) {
		inside[Point{ID: ref.ID, Layer: Layer(ref.Layer), X: ref.Lon, Y: ref.Lat}] = true
	}

	points := make([]Point, 0, len(inside))
	for _, p := range s.Points {
		if inside[p] {
			points = append(points, p)
		}
	}
	segments := make([]Segment, 0, len(s.Segments))
	for _, seg := range s.Segments {
		if b.Contains(orb.Point{seg.X1, seg.Y1}) || b.Contains(orb.Point{seg.X2, seg.Y2}) {
			segments = append(segments, seg)
		}
	}

	cropped := *s
	cropped.Points = points
	cropped.Segments = segments
	cropped.Viewport = &b
	return &cropped
}

// Load checks both inputs exist before parsing either of them.
func Load(dataPath, resultPath string, log *zap.Logger) (*Scene, error) {
	for _, p := range []struct{ kind, path string }{{"data", dataPath}, {"result", resultPath}} {
		if _, err := os.Stat(p.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, util.WrapErrorf(err, util.ErrMissingInput, "%s file %s not found", p.kind, p.path)
			}
			return nil, err
		}
	}

	demands, extras, depots, err := ParseInstance(dataPath, log)
	if err != nil {
		return nil, err
	}
	routes, err := result.ParseFile(resultPath)
	if err != nil {
		return nil, err
	}
	log.Info("result parsed", zap.String("file", resultPath), zap.Int("routes", len(routes)))
	return NewScene(demands, extras, depots, routes, log), nil
}
