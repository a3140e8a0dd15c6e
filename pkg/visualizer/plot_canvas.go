package visualizer

import (
	"bytes"
	"image/color"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	DefaultWidthInch  = 12
	DefaultHeightInch = 10
	DefaultDPI        = 300

	// 0.7 opacity
	segmentAlpha uint8 = 0xb3
)

type marker struct {
	color  color.RGBA
	shape  draw.GlyphDrawer
	radius vg.Length
}

var markers = map[Layer]marker{
	LayerDemand:       {color: color.RGBA{B: 0xff, A: 0xff}, shape: draw.CircleGlyph{}, radius: vg.Points(3)},
	LayerExtra:        {color: color.RGBA{G: 0x80, A: 0xff}, shape: draw.CircleGlyph{}, radius: vg.Points(3)},
	LayerVehicleDepot: {color: color.RGBA{R: 0xff, A: 0xff}, shape: draw.SquareGlyph{}, radius: vg.Points(5)},
	LayerDroneDepot:   {color: color.RGBA{R: 0xbf, B: 0xbf, A: 0xff}, shape: draw.SquareGlyph{}, radius: vg.Points(5)},
}

// PlotCanvas renders onto a gonum plot.
type PlotCanvas struct {
	p      *plot.Plot
	width  vg.Length
	height vg.Length
	dpi    int
}

func NewPlotCanvas(widthInch, heightInch float64, dpi int) *PlotCanvas {
	if widthInch <= 0 {
		widthInch = DefaultWidthInch
	}
	if heightInch <= 0 {
		heightInch = DefaultHeightInch
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	p := plot.New()
	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	p.Add(grid)
	p.Legend.Top = true

	return &PlotCanvas{
		p:      p,
		width:  vg.Length(widthInch) * vg.Inch,
		height: vg.Length(heightInch) * vg.Inch,
		dpi:    dpi,
	}
}

func toXYs(pts []Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X = p.X
		xys[i].Y = p.Y
	}
	return xys
}

func (c *PlotCanvas) DrawPoints(layer Layer, pts []Point) error {
	s, err := plotter.NewScatter(toXYs(pts))
	if err != nil {
		return err
	}
	m := markers[layer]
	s.GlyphStyle = draw.GlyphStyle{Color: m.color, Shape: m.shape, Radius: m.radius}
	if len(pts) > 0 {
		c.p.Add(s)
	}
	c.p.Legend.Add(legendLabel(layer), s)
	return nil
}

func (c *PlotCanvas) DrawLabels(pts []Point, fontSize float64) error {
	labels := make([]string, len(pts))
	for i, p := range pts {
		labels[i] = strconv.Itoa(p.ID)
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: toXYs(pts), Labels: labels})
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(fontSize)
	}
	c.p.Add(l)
	return nil
}

func (c *PlotCanvas) DrawSegment(seg Segment) error {
	l, err := plotter.NewLine(plotter.XYs{{X: seg.X1, Y: seg.Y1}, {X: seg.X2, Y: seg.Y2}})
	if err != nil {
		return err
	}
	l.LineStyle.Color = segmentColor(seg.Color)
	l.LineStyle.Width = vg.Points(1.5)
	c.p.Add(l)
	return nil
}

// segmentColor is the palette entry for a route color index, drawn translucent.
func segmentColor(idx int) color.NRGBA {
	c := Palette[idx%len(Palette)]
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: segmentAlpha}
}

func (c *PlotCanvas) Finish(frame Frame) error {
	c.p.Title.Text = frame.Title
	c.p.X.Label.Text = frame.XLabel
	c.p.Y.Label.Text = frame.YLabel
	if frame.Viewport != nil {
		c.p.X.Min, c.p.X.Max = frame.Viewport.Min.Lon(), frame.Viewport.Max.Lon()
		c.p.Y.Min, c.p.Y.Max = frame.Viewport.Min.Lat(), frame.Viewport.Max.Lat()
	}
	return nil
}

// WriteTo encodes the plot as format ("png", "svg", "pdf", ...). png honours the canvas dpi.
func (c *PlotCanvas) WriteTo(w io.Writer, format string) (int64, error) {
	format = strings.ToLower(format)
	if format == "png" {
		img := vgimg.NewWith(vgimg.UseWH(c.width, c.height), vgimg.UseDPI(c.dpi))
		c.p.Draw(draw.New(img))
		return vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	}
	wt, err := c.p.WriterTo(c.width, c.height, format)
	if err != nil {
		return 0, err
	}
	return wt.WriteTo(w)
}

// Save writes the plot to filename, the format is taken from its extension.
func (c *PlotCanvas) Save(filename string) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if format == "" {
		format = "png"
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf, format); err != nil {
		return err
	}
	return writeAtomic(filename, buf.Bytes())
}

// RenderImage renders scene into an encoded image.
func RenderImage(scene *Scene, format string, widthInch, heightInch float64, dpi int) ([]byte, error) {
	canvas := NewPlotCanvas(widthInch, heightInch, dpi)
	if err := Render(canvas, scene); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
