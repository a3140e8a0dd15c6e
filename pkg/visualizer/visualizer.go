package visualizer

import (
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Output     string
	GeoJSON    string
	Viewport   *orb.Bound
	WidthInch  float64
	HeightInch float64
	DPI        int
}

func NewOptions(output, geoJSON string, viewport *orb.Bound, widthInch, heightInch float64, dpi int) Options {
	return Options{
		Output:     output,
		GeoJSON:    geoJSON,
		Viewport:   viewport,
		WidthInch:  widthInch,
		HeightInch: heightInch,
		DPI:        dpi,
	}
}

// Visualize loads both inputs, then writes the image and the optional GeoJSON export concurrently.
// every artifact is written to a temporary sibling first, so a failed run leaves no partial output.
func Visualize(dataPath, resultPath string, opts Options, log *zap.Logger) (*Scene, error) {
	scene, err := Load(dataPath, resultPath, log)
	if err != nil {
		return nil, err
	}
	if opts.Viewport != nil {
		scene = scene.WithViewport(*opts.Viewport)
		log.Info("viewport applied", zap.Int("points", len(scene.Points)), zap.Int("segments", len(scene.Segments)))
	}

	g := errgroup.Group{}
	g.Go(func() error {
		canvas := NewPlotCanvas(opts.WidthInch, opts.HeightInch, opts.DPI)
		if err := Render(canvas, scene); err != nil {
			return err
		}
		if err := canvas.Save(opts.Output); err != nil {
			return err
		}
		log.Info("Visualization saved", zap.String("file", opts.Output))
		return nil
	})
	if opts.GeoJSON != "" {
		g.Go(func() error {
			if err := WriteGeoJSON(opts.GeoJSON, scene); err != nil {
				return err
			}
			log.Info("GeoJSON saved", zap.String("file", opts.GeoJSON))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scene, nil
}

func writeAtomic(filename string, data []byte) error {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
