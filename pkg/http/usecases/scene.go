package usecases

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/dronedelivery/pkg/spatialindex"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/lintang-b-s/dronedelivery/pkg/visualizer"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

const imageCacheSize = 64

type RenderOptions struct {
	WidthInch  float64
	HeightInch float64
	DPI        int
}

// SceneService serves one loaded scene. the full image and GeoJSON are rendered once,
// viewport images are rendered on demand and kept in an LRU cache.
type SceneService struct {
	log   *zap.Logger
	scene *visualizer.Scene
	opts  RenderOptions

	fullOnce  sync.Once
	fullImage []byte
	fullErr   error

	geoJSON   []byte
	summaries []visualizer.RouteSummary

	imageCache *lru.Cache[orb.Bound, []byte]
}

func NewSceneService(log *zap.Logger, scene *visualizer.Scene, opts RenderOptions) (*SceneService, error) {
	geoJSON, err := visualizer.MarshalGeoJSON(scene)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[orb.Bound, []byte](imageCacheSize)
	if err != nil {
		return nil, err
	}
	return &SceneService{
		log:        log,
		scene:      scene,
		opts:       opts,
		geoJSON:    geoJSON,
		summaries:  visualizer.Summarize(scene),
		imageCache: cache,
	}, nil
}

// Image renders the scene as png, limited to viewport when it is not nil.
func (ss *SceneService) Image(viewport *orb.Bound) ([]byte, error) {
	if viewport == nil {
		ss.fullOnce.Do(func() {
			ss.fullImage, ss.fullErr = visualizer.RenderImage(ss.scene, "png", ss.opts.WidthInch, ss.opts.HeightInch, ss.opts.DPI)
		})
		if ss.fullErr != nil {
			return nil, util.WrapErrorf(ss.fullErr, util.ErrInternalServerError, "render image")
		}
		return ss.fullImage, nil
	}

	if img, ok := ss.imageCache.Get(*viewport); ok {
		return img, nil
	}
	cropped := ss.scene.WithViewport(*viewport)
	if len(cropped.Points) == 0 && len(cropped.Segments) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "nothing to draw inside bbox %v", *viewport)
	}
	img, err := visualizer.RenderImage(cropped, "png", ss.opts.WidthInch, ss.opts.HeightInch, ss.opts.DPI)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "render viewport image")
	}
	ss.imageCache.Add(*viewport, img)
	ss.log.Debug("viewport image rendered", zap.Int("points", len(cropped.Points)), zap.Int("bytes", len(img)))
	return img, nil
}

func (ss *SceneService) GeoJSON() []byte {
	return ss.geoJSON
}

func (ss *SceneService) Summary() []visualizer.RouteSummary {
	return ss.summaries
}

func (ss *SceneService) Nearby(lat, lon, radiusKM float64, limit int) []spatialindex.NodeRef {
	return ss.scene.Nearby(lat, lon, radiusKM, limit)
}
