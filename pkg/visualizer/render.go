package visualizer

import (
	"image/color"

	"github.com/paulmach/orb"
)

const (
	Title  = "Delivery Routes Visualization"
	XLabel = "Longitude"
	YLabel = "Latitude"

	pointLabelSize = 8
	depotLabelSize = 10
)

// Palette is matplotlib's tab10, route i is drawn with Palette[i%len(Palette)].
var Palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// Frame carries the decorations drawn once all layers are in.
type Frame struct {
	Title    string
	XLabel   string
	YLabel   string
	Viewport *orb.Bound
}

// Canvas is a 2-D point/line renderer.
type Canvas interface {
	// DrawPoints draws one layer with its marker style and registers its legend entry, even when pts is empty.
	DrawPoints(layer Layer, pts []Point) error
	DrawLabels(pts []Point, fontSize float64) error
	DrawSegment(seg Segment) error
	Finish(frame Frame) error
}

// Render draws the scene: every point layer with id labels, then route segments, then the frame.
func Render(canvas Canvas, scene *Scene) error {
	byLayer := make(map[Layer][]Point, len(layers))
	for _, p := range scene.Points {
		byLayer[p.Layer] = append(byLayer[p.Layer], p)
	}

	for _, layer := range layers {
		pts := byLayer[layer]
		if err := canvas.DrawPoints(layer, pts); err != nil {
			return err
		}
		size := float64(pointLabelSize)
		if layer == LayerVehicleDepot || layer == LayerDroneDepot {
			size = depotLabelSize
		}
		if len(pts) == 0 {
			continue
		}
		if err := canvas.DrawLabels(pts, size); err != nil {
			return err
		}
	}

	for _, seg := range scene.Segments {
		if err := canvas.DrawSegment(seg); err != nil {
			return err
		}
	}

	return canvas.Finish(Frame{
		Title:    Title,
		XLabel:   XLabel,
		YLabel:   YLabel,
		Viewport: scene.Viewport,
	})
}

func legendLabel(layer Layer) string {
	switch layer {
	case LayerDemand:
		return "Initial Demand Points"
	case LayerExtra:
		return "Extra Demand Points"
	case LayerVehicleDepot:
		return "Vehicle Centers"
	case LayerDroneDepot:
		return "Drone Centers"
	}
	return string(layer)
}
