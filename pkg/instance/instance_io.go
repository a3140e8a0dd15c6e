package instance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

// WriteInstance serializes inst in the positional text grammar:
//
//	nDemand nExtra nVehicleDepot nDroneDepot
//	droneSpeed vehicleSpeed droneCost vehicleCost droneMaxLoad timeWeight
//	nEdges
//	node1 node2 length          (nEdges lines)
//	id x y                      (nDemand lines)
//	id x y attr                 (nVehicleDepot lines)
//	id x y attr                 (nDroneDepot lines)
//	id x y arrivalTime          (nExtra lines)
func WriteInstance(wr io.Writer, inst *Instance) error {
	w := bufio.NewWriter(wr)

	fmt.Fprintf(w, "%d %d %d %d\n", len(inst.Demands), len(inst.ExtraDemands),
		len(inst.VehicleDepots), len(inst.DroneDepots))

	p := inst.Params
	fmt.Fprintf(w, "%s %s %s %s %s %s\n",
		util.FormatFloat(p.DroneSpeed), util.FormatFloat(p.VehicleSpeed),
		util.FormatFloat(p.DroneCost), util.FormatFloat(p.VehicleCost),
		util.FormatFloat(p.DroneMaxLoad), util.FormatFloat(p.TimeWeight))

	fmt.Fprintf(w, "%d\n", len(inst.Edges))
	for _, e := range inst.Edges {
		fmt.Fprintf(w, "%d %d %s\n", e.From, e.To, util.FormatFloat(e.Length))
	}

	for _, n := range inst.Demands {
		fmt.Fprintf(w, "%d %s %s\n", n.ID, util.FormatFloat(n.X), util.FormatFloat(n.Y))
	}

	for _, d := range inst.VehicleDepots {
		fmt.Fprintf(w, "%d %s %s %d\n", d.ID, util.FormatFloat(d.X), util.FormatFloat(d.Y), d.Attr)
	}

	for _, d := range inst.DroneDepots {
		fmt.Fprintf(w, "%d %s %s %d\n", d.ID, util.FormatFloat(d.X), util.FormatFloat(d.Y), d.Attr)
	}

	for _, ed := range inst.ExtraDemands {
		fmt.Fprintf(w, "%d %s %s %d\n", ed.ID, util.FormatFloat(ed.X), util.FormatFloat(ed.Y), ed.ArrivalTime)
	}

	return w.Flush()
}

type header struct {
	numDemands       int
	numExtraDemands  int
	numVehicleDepots int
	numDroneDepots   int
}

// ReadInstance parses one instance. the header counts are the only loop bounds.
func ReadInstance(r io.Reader) (*Instance, error) {
	inst, _, err := ReadInstanceWithLeftover(r)
	return inst, err
}

// ReadInstanceWithLeftover also reports how many records followed the last declared section.
func ReadInstanceWithLeftover(r io.Reader) (*Instance, int, error) {
	return readInstance(NewCursor(r))
}

func readInstance(c *Cursor) (*Instance, int, error) {
	tokens, err := c.NextN("header", 4)
	if err != nil {
		return nil, 0, err
	}
	counts := make([]int, 4)
	for i, tok := range tokens {
		counts[i], err = parseCount(c, "header", tok)
		if err != nil {
			return nil, 0, err
		}
	}
	h := header{
		numDemands:       counts[0],
		numExtraDemands:  counts[1],
		numVehicleDepots: counts[2],
		numDroneDepots:   counts[3],
	}

	params, err := parseParams(c)
	if err != nil {
		return nil, 0, err
	}

	tokens, err = c.NextN("edge count", 1)
	if err != nil {
		return nil, 0, err
	}
	numEdges, err := parseCount(c, "edge count", tokens[0])
	if err != nil {
		return nil, 0, err
	}

	edges := make([]Edge, numEdges)
	for i := 0; i < numEdges; i++ {
		edges[i], err = parseEdge(c)
		if err != nil {
			return nil, 0, err
		}
	}

	demands := make([]Node, h.numDemands)
	for i := 0; i < h.numDemands; i++ {
		tokens, err := c.NextN("demands", 3)
		if err != nil {
			return nil, 0, err
		}
		demands[i], err = parseNode(c, "demands", tokens)
		if err != nil {
			return nil, 0, err
		}
	}

	vehicleDepots, err := parseDepots(c, "vehicle depots", h.numVehicleDepots, VehicleDepot)
	if err != nil {
		return nil, 0, err
	}
	droneDepots, err := parseDepots(c, "drone depots", h.numDroneDepots, DroneDepot)
	if err != nil {
		return nil, 0, err
	}

	extraDemands := make([]ExtraDemand, h.numExtraDemands)
	for i := 0; i < h.numExtraDemands; i++ {
		tokens, err := c.NextN("extra demands", 4)
		if err != nil {
			return nil, 0, err
		}
		n, err := parseNode(c, "extra demands", tokens[:3])
		if err != nil {
			return nil, 0, err
		}
		arrival, err := util.ParseIntLoose(tokens[3])
		if err != nil {
			return nil, 0, malformed(c, "extra demands", err)
		}
		extraDemands[i] = NewExtraDemand(n, arrival)
	}

	leftover, err := c.Remaining()
	if err != nil {
		return nil, 0, err
	}

	return NewInstance(params, edges, demands, vehicleDepots, droneDepots, extraDemands), leftover, nil
}

func parseParams(c *Cursor) (Params, error) {
	tokens, err := c.NextN("parameters", 6)
	if err != nil {
		return Params{}, err
	}
	vals := make([]float64, 6)
	for i, tok := range tokens {
		vals[i], err = util.StringToFloat64(tok)
		if err != nil {
			return Params{}, malformed(c, "parameters", err)
		}
	}
	return Params{
		DroneSpeed:   vals[0],
		VehicleSpeed: vals[1],
		DroneCost:    vals[2],
		VehicleCost:  vals[3],
		DroneMaxLoad: vals[4],
		TimeWeight:   vals[5],
	}, nil
}

func parseEdge(c *Cursor) (Edge, error) {
	tokens, err := c.NextN("edges", 3)
	if err != nil {
		return Edge{}, err
	}
	from, err := util.ParseIntLoose(tokens[0])
	if err != nil {
		return Edge{}, malformed(c, "edges", err)
	}
	to, err := util.ParseIntLoose(tokens[1])
	if err != nil {
		return Edge{}, malformed(c, "edges", err)
	}
	length, err := util.StringToFloat64(tokens[2])
	if err != nil {
		return Edge{}, malformed(c, "edges", err)
	}
	return NewEdge(from, to, length), nil
}

func parseNode(c *Cursor, section string, tokens []string) (Node, error) {
	id, err := util.ParseIntLoose(tokens[0])
	if err != nil {
		return Node{}, malformed(c, section, err)
	}
	x, err := util.StringToFloat64(tokens[1])
	if err != nil {
		return Node{}, malformed(c, section, err)
	}
	y, err := util.StringToFloat64(tokens[2])
	if err != nil {
		return Node{}, malformed(c, section, err)
	}
	return NewNode(id, x, y), nil
}

func parseDepots(c *Cursor, section string, n int, kind DepotKind) ([]Depot, error) {
	depots := make([]Depot, n)
	for i := 0; i < n; i++ {
		tokens, err := c.NextN(section, 4)
		if err != nil {
			return nil, err
		}
		node, err := parseNode(c, section, tokens[:3])
		if err != nil {
			return nil, err
		}
		attr, err := util.ParseIntLoose(tokens[3])
		if err != nil {
			return nil, malformed(c, section, err)
		}
		depots[i] = NewDepot(node, attr, kind)
	}
	return depots, nil
}

func parseCount(c *Cursor, section, tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, malformed(c, section, err)
	}
	if v < 0 {
		return 0, util.WrapErrorf(nil, ErrMalformedLine, "%s: line %d: negative count %d", section, c.Line(), v)
	}
	return v, nil
}

func malformed(c *Cursor, section string, err error) error {
	return util.WrapErrorf(err, ErrMalformedLine, "%s: line %d", section, c.Line())
}
