package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/dronedelivery/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/dronedelivery/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/dronedelivery/pkg/http/server"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler wires routes and the middleware chain.
func (api *API) Handler(log *zap.Logger, useRateLimit bool, rateLimit float64, burst int,
	sceneService controllers.SceneService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.GET("/", indexHandler)

	group := router_helper.NewRouteGroup(router, "/api")
	visualizationRoutes := controllers.New(sceneService, log)
	visualizationRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, api.recoverPanic, RealIP, Heartbeat("healthz"), Logger(log)}
	if useRateLimit {
		mwChain = append(mwChain, Limit(rateLimit, burst))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves until ctx is canceled or the server fails.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,
	handler http.Handler,
) error {
	log.Info("Run httprouter API")

	srv := http_server.New(ctx, handler, config)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func indexHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexPage))
}

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Delivery Routes Visualization</title></head>
<body>
<form onsubmit="document.getElementById('plot').src='/api/plot.png?bbox='+encodeURIComponent(this.bbox.value);return false;">
<input name="bbox" size="40" placeholder="minLon,minLat,maxLon,maxLat">
<button type="submit">zoom</button>
<a href="/api/routes.geojson">geojson</a>
<a href="/api/summary">summary</a>
</form>
<img id="plot" src="/api/plot.png" style="max-width:100%">
</body>
</html>
`
