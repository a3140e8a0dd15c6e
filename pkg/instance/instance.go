package instance

import (
	"fmt"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

const (
	MinDepotAttr = 1
	MaxDepotAttr = 5

	// arrival times are minute offsets within one day, [MinArrivalTime, MaxArrivalTime).
	MinArrivalTime = 1
	MaxArrivalTime = 1440
)

type DepotKind uint8

const (
	VehicleDepot DepotKind = iota
	DroneDepot
)

func (k DepotKind) String() string {
	switch k {
	case VehicleDepot:
		return "vehicle"
	case DroneDepot:
		return "drone"
	default:
		return fmt.Sprintf("DepotKind(%d)", uint8(k))
	}
}

// Node. X is the longitude, Y the latitude.
type Node struct {
	ID int
	X  float64
	Y  float64
}

func NewNode(id int, x, y float64) Node {
	return Node{ID: id, X: x, Y: y}
}

// Edge is a road segment, length in meters. the network is a multigraph, duplicates are kept.
type Edge struct {
	From   int
	To     int
	Length float64
}

func NewEdge(from, to int, length float64) Edge {
	return Edge{From: from, To: to, Length: length}
}

type Depot struct {
	Node
	Attr int
	Kind DepotKind
}

func NewDepot(n Node, attr int, kind DepotKind) Depot {
	return Depot{Node: n, Attr: attr, Kind: kind}
}

// ExtraDemand is a demand node that arrives during the simulated day.
type ExtraDemand struct {
	Node
	ArrivalTime int
}

func NewExtraDemand(n Node, arrivalTime int) ExtraDemand {
	return ExtraDemand{Node: n, ArrivalTime: arrivalTime}
}

// Params is the second header line.
type Params struct {
	DroneSpeed   float64 `validate:"gt=0"`
	VehicleSpeed float64 `validate:"gt=0"`
	DroneCost    float64 `validate:"gte=0"`
	VehicleCost  float64 `validate:"gte=0"`
	DroneMaxLoad float64 `validate:"gt=0"`
	TimeWeight   float64 `validate:"gte=0"`
}

func DefaultParams() Params {
	return Params{
		DroneSpeed:   20,
		VehicleSpeed: 10,
		DroneCost:    0.84,
		VehicleCost:  0.62,
		DroneMaxLoad: 20,
		TimeWeight:   0.1,
	}
}

// Instance is one delivery problem. the section order is fixed:
// params, edges, demands, vehicle depots, drone depots, extra demands.
type Instance struct {
	Params        Params
	Edges         []Edge
	Demands       []Node
	VehicleDepots []Depot
	DroneDepots   []Depot
	ExtraDemands  []ExtraDemand
}

func NewInstance(params Params, edges []Edge, demands []Node, vehicleDepots, droneDepots []Depot,
	extraDemands []ExtraDemand) *Instance {
	return &Instance{
		Params:        params,
		Edges:         edges,
		Demands:       demands,
		VehicleDepots: vehicleDepots,
		DroneDepots:   droneDepots,
		ExtraDemands:  extraDemands,
	}
}

// Depots returns vehicle depots followed by drone depots.
func (inst *Instance) Depots() []Depot {
	depots := make([]Depot, 0, len(inst.VehicleDepots)+len(inst.DroneDepots))
	depots = append(depots, inst.VehicleDepots...)
	depots = append(depots, inst.DroneDepots...)
	return depots
}

// Validate checks the invariants a solver relies on.
func (inst *Instance) Validate() error {
	for _, d := range inst.VehicleDepots {
		if d.Kind != VehicleDepot {
			return util.WrapErrorf(nil, ErrInvalidInstance, "depot %d listed as vehicle depot has kind %s", d.ID, d.Kind)
		}
	}
	for _, d := range inst.DroneDepots {
		if d.Kind != DroneDepot {
			return util.WrapErrorf(nil, ErrInvalidInstance, "depot %d listed as drone depot has kind %s", d.ID, d.Kind)
		}
	}
	for _, d := range inst.Depots() {
		if d.Attr < MinDepotAttr || d.Attr > MaxDepotAttr {
			return util.WrapErrorf(nil, ErrInvalidInstance, "depot %d attribute %d outside [%d,%d]",
				d.ID, d.Attr, MinDepotAttr, MaxDepotAttr)
		}
	}
	prev := MinArrivalTime
	for i, ed := range inst.ExtraDemands {
		if ed.ArrivalTime < MinArrivalTime || ed.ArrivalTime >= MaxArrivalTime {
			return util.WrapErrorf(nil, ErrInvalidInstance, "extra demand %d arrival time %d outside [%d,%d)",
				ed.ID, ed.ArrivalTime, MinArrivalTime, MaxArrivalTime)
		}
		if ed.ArrivalTime < prev {
			return util.WrapErrorf(nil, ErrInvalidInstance, "extra demands not sorted by arrival time at position %d", i)
		}
		prev = ed.ArrivalTime
	}
	return nil
}
