package visualizer

import (
	"github.com/lintang-b-s/dronedelivery/pkg/geo"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

type RouteSummary struct {
	RouteID  int     `json:"route_id"`
	Kind     string  `json:"kind"`
	Tasks    int     `json:"tasks"`
	Segments int     `json:"segments"`
	Skipped  int     `json:"skipped"`
	LengthKM float64 `json:"length_km"`
	// Polyline is the encoded polyline of the resolvable task positions, in task order.
	Polyline       string  `json:"polyline"`
	CompletionTime float64 `json:"completion_time,omitempty"`
}

// Summarize reports, per route, how much of it could be drawn and its straight-line length.
func Summarize(scene *Scene) []RouteSummary {
	summaries := make([]RouteSummary, len(scene.Routes))
	for i, r := range scene.Routes {
		coords := make([][]float64, 0, len(r.Tasks))
		for _, id := range r.Tasks {
			if p, ok := scene.Index[id]; ok {
				coords = append(coords, []float64{p.Lat(), p.Lon()})
			}
		}
		summaries[i] = RouteSummary{
			RouteID:  r.ID,
			Kind:     r.Kind.String(),
			Tasks:    len(r.Tasks),
			Polyline: string(polyline.EncodeCoords(coords)),
		}
		if len(r.CompletionTimes) > 0 {
			summaries[i].CompletionTime = r.CompletionTimes[len(r.CompletionTimes)-1]
		}
	}

	for _, seg := range scene.Segments {
		summaries[seg.RouteIndex].Segments++
	}
	for routeIdx, runs := range routeRuns(scene.Segments) {
		for _, run := range runs {
			coords := make([]geo.Coordinate, len(run))
			for i, p := range run {
				coords[i] = geo.NewCoordinate(p.Lat(), p.Lon())
			}
			summaries[routeIdx].LengthKM += geo.PathLength(coords)
		}
	}
	for _, sp := range scene.Skipped {
		summaries[sp.RouteIndex].Skipped++
	}
	for i := range summaries {
		summaries[i].LengthKM = util.RoundFloat(summaries[i].LengthKM, 3)
	}
	return summaries
}

func LogSummary(log *zap.Logger, summaries []RouteSummary) {
	for _, s := range summaries {
		log.Info("route",
			zap.Int("id", s.RouteID),
			zap.String("kind", s.Kind),
			zap.Int("tasks", s.Tasks),
			zap.Int("segments", s.Segments),
			zap.Int("skipped", s.Skipped),
			zap.Float64("length_km", s.LengthKM),
		)
	}
}
