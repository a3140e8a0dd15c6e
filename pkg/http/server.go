package http

import (
	"context"

	http_router "github.com/lintang-b-s/dronedelivery/pkg/http/router"
	"github.com/lintang-b-s/dronedelivery/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/dronedelivery/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Serve runs the display API on port until ctx is canceled.
func (s *Server) Serve(
	ctx context.Context,
	port int,
	useRateLimit bool,
	sceneService controllers.SceneService,
) error {
	viper.SetDefault("API_TIMEOUT", "30s")

	config := http_server.NewConfig(port, viper.GetDuration("API_TIMEOUT"))

	api := http_router.NewAPI(s.Log)
	handler := api.Handler(s.Log, useRateLimit,
		viper.GetFloat64("VISUALIZER_RATE_LIMIT"), viper.GetInt("VISUALIZER_RATE_BURST"), sceneService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, config, s.Log, handler)
	})
	return g.Wait()
}
