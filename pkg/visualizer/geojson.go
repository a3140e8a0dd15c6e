package visualizer

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the scene: one Point feature per plotted node and one feature per drawable
// route. a route with skipped pairs becomes a MultiLineString of its contiguous resolved runs.
func FeatureCollection(scene *Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range scene.Points {
		f := geojson.NewFeature(orb.Point{p.X, p.Y})
		f.Properties["id"] = p.ID
		f.Properties["kind"] = string(p.Layer)
		fc.Append(f)
	}

	runsByRoute := routeRuns(scene.Segments)
	for routeIdx, route := range scene.Routes {
		runs, ok := runsByRoute[routeIdx]
		if !ok {
			continue
		}
		var geom orb.Geometry
		if len(runs) == 1 {
			geom = runs[0]
		} else {
			geom = orb.MultiLineString(runs)
		}
		f := geojson.NewFeature(geom)
		f.Properties["route_id"] = route.ID
		f.Properties["kind"] = route.Kind.String()
		f.Properties["tasks"] = route.Tasks
		f.Properties["color"] = hexColor(routeIdx)
		if len(route.CompletionTimes) > 0 {
			f.Properties["completion_times"] = route.CompletionTimes
		}
		fc.Append(f)
	}
	return fc
}

// routeRuns groups segments by route, joining consecutive legs into one line string.
func routeRuns(segments []Segment) map[int][]orb.LineString {
	runs := make(map[int][]orb.LineString)
	lastPos := make(map[int]int)
	for _, seg := range segments {
		lines := runs[seg.RouteIndex]
		pos, seen := lastPos[seg.RouteIndex]
		if seen && pos+1 == seg.TaskPos {
			lines[len(lines)-1] = append(lines[len(lines)-1], orb.Point{seg.X2, seg.Y2})
		} else {
			lines = append(lines, orb.LineString{{seg.X1, seg.Y1}, {seg.X2, seg.Y2}})
		}
		runs[seg.RouteIndex] = lines
		lastPos[seg.RouteIndex] = seg.TaskPos
	}
	return runs
}

func hexColor(routeIdx int) string {
	c := Palette[routeIdx%len(Palette)]
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func MarshalGeoJSON(scene *Scene) ([]byte, error) {
	return FeatureCollection(scene).MarshalJSON()
}

// WriteGeoJSON writes the export through a temporary sibling, filename is replaced only on success.
func WriteGeoJSON(filename string, scene *Scene) error {
	data, err := MarshalGeoJSON(scene)
	if err != nil {
		return err
	}
	return writeAtomic(filename, data)
}
