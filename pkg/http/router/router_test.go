package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/dronedelivery/pkg/http/usecases"
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/result"
	"github.com/lintang-b-s/dronedelivery/pkg/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	demands := []instance.Node{
		instance.NewNode(1, 104.00, 30.60),
		instance.NewNode(2, 104.01, 30.61),
	}
	depots := []instance.Depot{instance.NewDepot(instance.NewNode(10, 104.05, 30.65), 1, instance.VehicleDepot)}
	routes := []result.Route{{ID: 0, Kind: instance.VehicleDepot, HasTasks: true, Tasks: []int{10, 1, 2, 10}}}
	scene := visualizer.NewScene(demands, nil, depots, routes, zap.NewNop())

	svc, err := usecases.NewSceneService(zap.NewNop(), scene, usecases.RenderOptions{WidthInch: 2, HeightInch: 2, DPI: 50})
	require.NoError(t, err)
	return NewAPI(zap.NewNop()).Handler(zap.NewNop(), false, 0, 0, svc)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := testHandler(t)

	testCases := []struct {
		name        string
		target      string
		status      int
		contentType string
	}{
		{name: "index", target: "/", status: http.StatusOK, contentType: "text/html; charset=utf-8"},
		{name: "healthz", target: "/healthz", status: http.StatusOK, contentType: "text/plain"},
		{name: "plot", target: "/api/plot.png", status: http.StatusOK, contentType: "image/png"},
		{name: "plot viewport", target: "/api/plot.png?bbox=103.99,30.59,104.02,30.62", status: http.StatusOK, contentType: "image/png"},
		{name: "plot bad bbox", target: "/api/plot.png?bbox=1,2,3", status: http.StatusBadRequest, contentType: "application/json"},
		{name: "plot empty viewport", target: "/api/plot.png?bbox=0,0,1,1", status: http.StatusNotFound, contentType: "application/json"},
		{name: "geojson", target: "/api/routes.geojson", status: http.StatusOK, contentType: "application/geo+json"},
		{name: "summary", target: "/api/summary", status: http.StatusOK, contentType: "application/json"},
		{name: "nearby", target: "/api/nodes/nearby?lat=30.60&lon=104.00", status: http.StatusOK, contentType: "application/json"},
		{name: "nearby missing lat", target: "/api/nodes/nearby?lon=104.00", status: http.StatusBadRequest, contentType: "application/json"},
		{name: "nearby radius too large", target: "/api/nodes/nearby?lat=30.6&lon=104&radius=100", status: http.StatusBadRequest, contentType: "application/json"},
		{name: "unknown", target: "/api/nope", status: http.StatusNotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestSummaryAndNearbyBodies(t *testing.T) {
	h := testHandler(t)

	var summary struct {
		Data []visualizer.RouteSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get(h, "/api/summary").Body.Bytes(), &summary))
	require.Len(t, summary.Data, 1)
	assert.Equal(t, 3, summary.Data[0].Segments)
	assert.Equal(t, "vehicle", summary.Data[0].Kind)

	var nearby struct {
		Data []struct {
			ID   int    `json:"id"`
			Kind string `json:"kind"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get(h, "/api/nodes/nearby?lat=30.60&lon=104.00&radius=2&limit=1").Body.Bytes(), &nearby))
	require.Len(t, nearby.Data, 1)
	assert.Equal(t, 1, nearby.Data[0].ID)
	assert.Equal(t, "demand", nearby.Data[0].Kind)
}

func TestLimit(t *testing.T) {
	h := Limit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, get(h, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/").Code)
}

func TestRecoverPanic(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	assert.Equal(t, http.StatusInternalServerError, get(h, "/").Code)
}

func TestRealIP(t *testing.T) {
	var remote string
	h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remote = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.7", remote)
}
