package geo

import (
	"strings"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/paulmach/orb"
)

// ParseBound parses "minLon,minLat,maxLon,maxLat". an empty string gives ok=false.
func ParseBound(s string) (bound orb.Bound, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return orb.Bound{}, false, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, false, util.WrapErrorf(nil, util.ErrConfig,
			"bbox %q must be minLon,minLat,maxLon,maxLat", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		vals[i], err = util.StringToFloat64(strings.TrimSpace(p))
		if err != nil {
			return orb.Bound{}, false, util.WrapErrorf(err, util.ErrConfig, "bbox %q", s)
		}
	}
	if vals[0] > vals[2] || vals[1] > vals[3] {
		return orb.Bound{}, false, util.WrapErrorf(nil, util.ErrConfig, "bbox %q has min greater than max", s)
	}
	if vals[1] < -90 || vals[3] > 90 || vals[0] < -180 || vals[2] > 180 {
		return orb.Bound{}, false, util.WrapErrorf(nil, util.ErrConfig, "bbox %q is out of range", s)
	}
	return orb.Bound{Min: orb.Point{vals[0], vals[1]}, Max: orb.Point{vals[2], vals[3]}}, true, nil
}
