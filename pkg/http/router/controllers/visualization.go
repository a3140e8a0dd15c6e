package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/dronedelivery/pkg/geo"
	helper "github.com/lintang-b-s/dronedelivery/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

const (
	defaultNearbyRadius = 0.5
	defaultNearbyLimit  = 10
)

type visualizationAPI struct {
	sceneService SceneService
	log          *zap.Logger
	validate     *validator.Validate
	trans        ut.Translator
}

func New(sceneService SceneService, log *zap.Logger) *visualizationAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &visualizationAPI{
		sceneService: sceneService,
		log:          log,
		validate:     validate,
		trans:        trans,
	}
}

func (api *visualizationAPI) Routes(group *helper.RouteGroup) {
	group.GET("/plot.png", api.plot)
	group.GET("/routes.geojson", api.geoJSON)
	group.GET("/summary", api.summary)
	group.GET("/nodes/nearby", api.nearby)
}

// plot returns the rendered routes as png. an optional bbox=minLon,minLat,maxLon,maxLat limits the viewport.
func (api *visualizationAPI) plot(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	bound, ok, err := geo.ParseBound(r.URL.Query().Get("bbox"))
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	var viewport *orb.Bound
	if ok {
		viewport = &bound
	}

	img, err := api.sceneService.Image(viewport)
	if err != nil {
		api.errorFromService(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (api *visualizationAPI) geoJSON(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.sceneService.GeoJSON())
}

func (api *visualizationAPI) summary(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": api.sceneService.Summary()}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *visualizationAPI) nearby(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyRequest
		err     error
	)
	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	request.Radius = defaultNearbyRadius
	if v := query.Get("radius"); v != "" {
		if request.Radius, err = strconv.ParseFloat(v, 64); err != nil {
			api.BadRequestResponse(w, r, errors.New("radius must be a valid float"))
			return
		}
	}
	request.Limit = defaultNearbyLimit
	if v := query.Get("limit"); v != "" {
		if request.Limit, err = strconv.Atoi(v); err != nil {
			api.BadRequestResponse(w, r, errors.New("limit must be a valid integer"))
			return
		}
	}

	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, util.WrapErrorf(nil, util.ErrBadParamInput, "validation error: %v", vvString))
		return
	}

	refs := api.sceneService.Nearby(request.Lat, request.Lon, request.Radius, request.Limit)
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodesResponse(refs)}, headers); err != nil {
		api.ServerErrorResponse(w, r, fmt.Errorf("nearby response: %w", err))
	}
}
