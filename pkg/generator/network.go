package generator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"go.uber.org/zap"
)

// the road table separates the two node ids with a fullwidth comma (U+FF0C).
const wideComma = "，"

// ParseNodePair parses "a，b" into the ordered pair (a, b). an ASCII comma is accepted too.
func ParseNodePair(pair string) (int, int, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(pair), wideComma, ",")
	parts := strings.Split(normalized, ",")
	if len(parts) != 2 {
		return 0, 0, util.WrapErrorf(nil, util.ErrFormat, "node pair %q: expected two ids", pair)
	}
	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, util.WrapErrorf(err, util.ErrFormat, "node pair %q", pair)
	}
	to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, util.WrapErrorf(err, util.ErrFormat, "node pair %q", pair)
	}
	return from, to, nil
}

// LoadNetwork turns road rows into edges, keeping row order and duplicate edges.
// rows with an unparseable node pair are dropped. the returned ids are the sorted
// unique node ids of all kept edges.
func LoadNetwork(rows []tablesource.RoadRow, log *zap.Logger) ([]instance.Edge, []int) {
	edges := make([]instance.Edge, 0, len(rows))
	seen := make(map[int]struct{})
	dropped := 0
	for i, row := range rows {
		from, to, err := ParseNodePair(row.Pair)
		if err != nil {
			dropped++
			log.Warn("dropping road row", zap.Int("row", i), zap.Error(err))
			continue
		}
		edges = append(edges, instance.NewEdge(from, to, row.Length))
		seen[from] = struct{}{}
		seen[to] = struct{}{}
	}

	nodeIDs := make([]int, 0, len(seen))
	for id := range seen {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Ints(nodeIDs)

	log.Info("road network loaded", zap.Int("edges", len(edges)), zap.Int("nodes", len(nodeIDs)),
		zap.Int("dropped_rows", dropped))
	return edges, nodeIDs
}
