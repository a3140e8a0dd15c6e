package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/lintang-b-s/dronedelivery/pkg/geo"
	"github.com/lintang-b-s/dronedelivery/pkg/http"
	"github.com/lintang-b-s/dronedelivery/pkg/http/usecases"
	"github.com/lintang-b-s/dronedelivery/pkg/logger"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/lintang-b-s/dronedelivery/pkg/visualizer"
	"github.com/paulmach/orb"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	dataPath    = flag.String("data", "", "Path to the data file")
	resultPath  = flag.String("result", "", "Path to the result file")
	outputPath  = flag.String("output", "route_visualization.png", "Output image path (.png, .svg, .pdf)")
	geoJSONPath = flag.String("geojson", "", "optional GeoJSON export path")
	bbox        = flag.String("bbox", "", "optional viewport minLon,minLat,maxLon,maxLat")
	serve       = flag.Bool("serve", false, "serve the visualization over HTTP until interrupted")
	port        = flag.Int("port", 6060, "HTTP port for -serve")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	if err := run(logger); err != nil {
		logger.Error("visualization failed", zap.Error(err))
		if errors.Is(err, util.ErrMissingInput) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	if *dataPath == "" || *resultPath == "" {
		flag.Usage()
		return util.WrapErrorf(nil, util.ErrConfig, "--data and --result are required")
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	output := *outputPath
	if !explicit["output"] {
		output = viper.GetString("VISUALIZER_OUTPUT")
	}

	bound, ok, err := geo.ParseBound(*bbox)
	if err != nil {
		return err
	}
	var viewport *orb.Bound
	if ok {
		viewport = &bound
	}

	width, height, dpi := viper.GetFloat64("VISUALIZER_WIDTH_INCH"), viper.GetFloat64("VISUALIZER_HEIGHT_INCH"),
		viper.GetInt("VISUALIZER_DPI")
	opts := visualizer.NewOptions(output, *geoJSONPath, viewport, width, height, dpi)

	scene, err := visualizer.Visualize(*dataPath, *resultPath, opts, log)
	if err != nil {
		return err
	}
	visualizer.LogSummary(log, visualizer.Summarize(scene))
	fmt.Printf("Visualization saved to %s\n", output)

	if !*serve {
		return nil
	}

	listenPort := *port
	if !explicit["port"] {
		listenPort = viper.GetInt("VISUALIZER_PORT")
	}
	sceneService, err := usecases.NewSceneService(log, scene, usecases.RenderOptions{
		WidthInch:  width,
		HeightInch: height,
		DPI:        dpi,
	})
	if err != nil {
		return err
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		return err
	}
	defer cleanup()

	api := http.NewServer(log)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(gctx, listenPort, true, sceneService)
	})
	g.Go(func() error {
		if sig := http.GracefulShutdown(gctx); sig != nil {
			log.Info("Visualization Server Stopped", zap.String("signal", sig.String()))
		}
		cleanup()
		return nil
	})
	return g.Wait()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
