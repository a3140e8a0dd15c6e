package controllers

import (
	"github.com/lintang-b-s/dronedelivery/pkg/spatialindex"
	"github.com/lintang-b-s/dronedelivery/pkg/visualizer"
	"github.com/paulmach/orb"
)

type SceneService interface {
	Image(viewport *orb.Bound) ([]byte, error)
	GeoJSON() []byte
	Summary() []visualizer.RouteSummary
	Nearby(lat, lon, radiusKM float64, limit int) []spatialindex.NodeRef
}
