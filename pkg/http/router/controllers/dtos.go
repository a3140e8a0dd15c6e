package controllers

import "github.com/lintang-b-s/dronedelivery/pkg/spatialindex"

type nearbyRequest struct {
	Lat    float64 `json:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"min=-180,max=180"`
	Radius float64 `json:"radius" validate:"gt=0,lte=50"`
	Limit  int     `json:"limit" validate:"gte=1,lte=100"`
}

type nodeResponse struct {
	ID   int     `json:"id"`
	Kind string  `json:"kind"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func NewNodesResponse(refs []spatialindex.NodeRef) []nodeResponse {
	nodes := make([]nodeResponse, len(refs))
	for i, ref := range refs {
		nodes[i] = nodeResponse{ID: ref.ID, Kind: ref.Layer, Lat: ref.Lat, Lon: ref.Lon}
	}
	return nodes
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
