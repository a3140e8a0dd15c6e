package result

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

const (
	DefaultUnitMarker     = "配送工具"
	DefaultDroneText      = "无人机"
	DefaultTaskLabel      = "任务序列"
	DefaultCompletionText = "完成时间"
)

// Route is one transport unit's block in a solver result file.
type Route struct {
	ID   int
	Kind instance.DepotKind
	// Detail is the text between the parentheses of the header, e.g. "无人机, 载重: 50, 电池容量: 5".
	Detail string
	// HasTasks is false when the header was not followed by a task sequence line.
	HasTasks        bool
	Tasks           []int
	CompletionTimes []float64
}

type scanState uint8

const (
	seekingHeader scanState = iota
	seekingTasks
	seekingCompletion
)

type Parser struct {
	unitMarker     string
	droneText      string
	taskLabel      string
	completionText string
}

type Option func(*Parser)

func WithMarker(marker string) Option {
	return func(p *Parser) {
		if marker != "" {
			p.unitMarker = marker
		}
	}
}

func WithDroneText(text string) Option {
	return func(p *Parser) {
		if text != "" {
			p.droneText = text
		}
	}
}

func WithTaskLabel(label string) Option {
	return func(p *Parser) {
		if label != "" {
			p.taskLabel = label
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		unitMarker:     DefaultUnitMarker,
		droneText:      DefaultDroneText,
		taskLabel:      DefaultTaskLabel,
		completionText: DefaultCompletionText,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse scans a free-form solver printout.
//
// seekingHeader: a line "<marker> <id> (<type text>)..." opens a route and moves to seekingTasks.
// seekingTasks: the very next line either carries "<task label>: <ids>" or the route has no task
// list; in that case the same line is examined again as a potential header.
// seekingCompletion: an optional "...完成时间: <times>" line directly after the task line.
// every other line is ignored.
func (p *Parser) Parse(r io.Reader) ([]Route, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		routes []Route
		state  = seekingHeader
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case seekingTasks:
			if strings.Contains(line, p.taskLabel) {
				routes[len(routes)-1].Tasks = parseInts(afterColon(line))
				routes[len(routes)-1].HasTasks = true
				state = seekingCompletion
				continue
			}
			state = seekingHeader
		case seekingCompletion:
			state = seekingHeader
			if strings.Contains(line, p.completionText) && !strings.HasPrefix(line, p.unitMarker) {
				routes[len(routes)-1].CompletionTimes = parseFloats(afterColon(line))
				continue
			}
		}

		if route, ok := p.parseHeader(line); ok {
			routes = append(routes, route)
			state = seekingTasks
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}

// ParseFile opens, scans and closes filename.
func (p *Parser) ParseFile(filename string) ([]Route, error) {
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, util.WrapErrorf(err, util.ErrMissingInput, "result file %s", filename)
		}
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

func Parse(r io.Reader) ([]Route, error) {
	return NewParser().Parse(r)
}

func ParseFile(filename string) ([]Route, error) {
	return NewParser().ParseFile(filename)
}

func (p *Parser) parseHeader(line string) (Route, bool) {
	if !strings.HasPrefix(line, p.unitMarker) {
		return Route{}, false
	}
	rest := strings.TrimPrefix(line, p.unitMarker)
	open := strings.Index(rest, "(")
	if open < 0 {
		open = strings.Index(rest, "（")
	}
	if open < 0 {
		return Route{}, false
	}

	idFields := util.Fields(rest[:open])
	if len(idFields) != 1 {
		return Route{}, false
	}
	id, err := strconv.Atoi(idFields[0])
	if err != nil {
		return Route{}, false
	}

	detail := rest[open:]
	detail = strings.TrimLeft(detail, "(（")
	if closeIdx := strings.LastIndexAny(detail, ")）"); closeIdx >= 0 {
		detail = detail[:closeIdx]
	}

	kind := instance.VehicleDepot
	if strings.Contains(detail, p.droneText) {
		kind = instance.DroneDepot
	}
	return Route{ID: id, Kind: kind, Detail: strings.TrimSpace(detail)}, true
}

func afterColon(line string) string {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return ""
	}
	_, size := utf8.DecodeRuneInString(line[idx:])
	return line[idx+size:]
}

// parseInts keeps the integer tokens, arrows and other separators are skipped.
func parseInts(s string) []int {
	tokens := util.Fields(s)
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if v, err := strconv.Atoi(tok); err == nil {
			ids = append(ids, v)
		}
	}
	return ids
}

func parseFloats(s string) []float64 {
	tokens := util.Fields(s)
	vals := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSuffix(strings.TrimSuffix(tok, ","), "h")
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			vals = append(vals, v)
		}
	}
	return vals
}
