package tablesource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// column names used by the survey spreadsheets, with plain english aliases.
var (
	demandIndexCols  = []string{"序号", "index", "id"}
	demandXCols      = []string{"X", "X坐标", "x", "lon", "longitude"}
	demandYCols      = []string{"Y坐标", "Y", "y", "lat", "latitude"}
	demandWeightCols = []string{"需求量", "demand", "weight"}

	roadPairCols   = []string{"路段起终点编号", "node_pair", "pair"}
	roadLengthCols = []string{"路段长度（米）", "路段长度(米)", "length", "length_m"}
)

// DemandRow is one row of the demand table. Index is the 0-based row position.
type DemandRow struct {
	Index  int
	ID     int
	X      float64
	Y      float64
	Demand float64
}

// RoadRow is one row of the road table. Pair is still the raw "a，b" text.
type RoadRow struct {
	Pair   string
	Length float64
}

// ReadRows returns the header and the data rows of a .csv or .xlsx file (first sheet).
func ReadRows(path string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, util.WrapErrorf(err, util.ErrMissingInput, "table %s", path)
		}
		return nil, nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	case ".csv", ".txt":
		rows, err = readCSV(path)
	default:
		return nil, nil, fmt.Errorf("unsupported table format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrConfig, "table %s is empty", path)
	}
	return rows[0], rows[1:], nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, line)
	}
	return rows, nil
}

// LoadDemandTable reads (index, x, y, demand) rows. unparseable rows are dropped and logged.
func LoadDemandTable(path string, log *zap.Logger) ([]DemandRow, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	cols := []int{
		columnIndex(header, demandIndexCols, 0),
		columnIndex(header, demandXCols, 1),
		columnIndex(header, demandYCols, 2),
		columnIndex(header, demandWeightCols, 3),
	}

	table := make([]DemandRow, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		dr, err := parseDemandRow(row, cols)
		if err != nil {
			log.Warn("dropping demand row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		dr.Index = len(table)
		table = append(table, dr)
	}
	log.Info("demand table loaded", zap.String("file", path), zap.Int("rows", len(table)))
	return table, nil
}

func parseDemandRow(row []string, cols []int) (DemandRow, error) {
	vals := make([]string, len(cols))
	for i, c := range cols {
		if c >= len(row) {
			return DemandRow{}, util.WrapErrorf(nil, util.ErrFormat, "missing column %d", c)
		}
		vals[i] = strings.TrimSpace(row[c])
	}
	id, err := util.ParseIntLoose(vals[0])
	if err != nil {
		return DemandRow{}, util.WrapErrorf(err, util.ErrFormat, "id %q", vals[0])
	}
	x, err := util.StringToFloat64(vals[1])
	if err != nil {
		return DemandRow{}, util.WrapErrorf(err, util.ErrFormat, "x %q", vals[1])
	}
	y, err := util.StringToFloat64(vals[2])
	if err != nil {
		return DemandRow{}, util.WrapErrorf(err, util.ErrFormat, "y %q", vals[2])
	}
	demand, err := util.StringToFloat64(vals[3])
	if err != nil {
		return DemandRow{}, util.WrapErrorf(err, util.ErrFormat, "demand %q", vals[3])
	}
	return DemandRow{ID: id, X: x, Y: y, Demand: demand}, nil
}

// LoadRoadTable reads (node pair text, length) rows. the pair text is parsed later by the generator.
func LoadRoadTable(path string, log *zap.Logger) ([]RoadRow, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	pairCol := columnIndex(header, roadPairCols, 0)
	lengthCol := columnIndex(header, roadLengthCols, 1)

	table := make([]RoadRow, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if pairCol >= len(row) || lengthCol >= len(row) {
			log.Warn("dropping road row", zap.Int("row", i+2), zap.Error(util.ErrFormat))
			continue
		}
		length, err := util.StringToFloat64(strings.TrimSpace(row[lengthCol]))
		if err != nil {
			log.Warn("dropping road row", zap.Int("row", i+2),
				zap.Error(util.WrapErrorf(err, util.ErrFormat, "length %q", row[lengthCol])))
			continue
		}
		table = append(table, RoadRow{Pair: row[pairCol], Length: length})
	}
	log.Info("road table loaded", zap.String("file", path), zap.Int("rows", len(table)))
	return table, nil
}

func columnIndex(header []string, names []string, fallback int) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return fallback
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
