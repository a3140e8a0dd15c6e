package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const exampleInstance = `5 3 2 1
20 10 0.84 0.62 20 0.1
6
1 2 120.5
2 3 80
3 4 45.25
4 5 300
5 1 10
1 2 120.5
101 104.05 30.65
102 104.06 30.66
103 104.07 30.67
104 104.08 30.68
105 104.09 30.69
2 104.1 30.7 3
4 104.11 30.71 1
5 104.12 30.72 5
106 104.13 30.73 15
107 104.14 30.74 300
108 104.15 30.75 1200
`

func sampleInstance() *Instance {
	return NewInstance(
		DefaultParams(),
		[]Edge{NewEdge(1, 2, 120.5), NewEdge(2, 3, 80), NewEdge(1, 2, 120.5), NewEdge(7, 1, 0.125)},
		[]Node{NewNode(10, 104.0554, 30.6522726), NewNode(11, 104.1, 30.7)},
		[]Depot{NewDepot(NewNode(1, 104.2, 30.8), 2, VehicleDepot)},
		[]Depot{NewDepot(NewNode(1, 104.2, 30.8), 5, DroneDepot), NewDepot(NewNode(2, 104.3, 30.9), 1, DroneDepot)},
		[]ExtraDemand{NewExtraDemand(NewNode(11, 104.1, 30.7), 3), NewExtraDemand(NewNode(10, 104.0554, 30.6522726), 1439)},
	)
}

func TestReadInstanceExample(t *testing.T) {
	inst, leftover, err := ReadInstanceWithLeftover(strings.NewReader(exampleInstance))
	require.NoError(t, err)

	assert.Equal(t, 0, leftover)
	assert.Len(t, inst.Edges, 6)
	assert.Len(t, inst.Demands, 5)
	assert.Len(t, inst.VehicleDepots, 2)
	assert.Len(t, inst.DroneDepots, 1)
	require.Len(t, inst.ExtraDemands, 3)

	assert.Equal(t, Params{DroneSpeed: 20, VehicleSpeed: 10, DroneCost: 0.84, VehicleCost: 0.62,
		DroneMaxLoad: 20, TimeWeight: 0.1}, inst.Params)
	assert.Equal(t, NewEdge(1, 2, 120.5), inst.Edges[5])
	assert.Equal(t, NewNode(103, 104.07, 30.67), inst.Demands[2])
	assert.Equal(t, NewDepot(NewNode(5, 104.12, 30.72), 5, DroneDepot), inst.DroneDepots[0])

	for i := 1; i < len(inst.ExtraDemands); i++ {
		assert.LessOrEqual(t, inst.ExtraDemands[i-1].ArrivalTime, inst.ExtraDemands[i].ArrivalTime)
	}
	assert.NoError(t, inst.Validate())
}

func TestRoundTrip(t *testing.T) {
	want := sampleInstance()

	var buf bytes.Buffer
	require.NoError(t, WriteInstance(&buf, want))

	got, leftover, err := ReadInstanceWithLeftover(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, leftover)
	assert.Equal(t, want, got)
}

func TestWriteInstanceLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInstance(&buf, sampleInstance()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3+4+2+1+2+2)
	assert.Equal(t, "2 2 1 2", lines[0])
	assert.Equal(t, "20 10 0.84 0.62 20 0.1", lines[1])
	assert.Equal(t, "4", lines[2])
	assert.Equal(t, "7 1 0.125", lines[6])
	assert.Equal(t, "10 104.0554 30.6522726", lines[7])
	assert.Equal(t, "1 104.2 30.8 2", lines[9])
	assert.Equal(t, "10 104.0554 30.6522726 1439", lines[13])
}

func TestReadInstanceErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: ErrTruncated,
		},
		{
			name:    "fewer edges than declared",
			input:   "0 0 0 0\n1 1 1 1 1 1\n3\n1 2 3\n2 3 4\n",
			wantErr: ErrTruncated,
		},
		{
			name:    "missing extra demand",
			input:   "1 1 0 0\n1 1 1 1 1 1\n0\n1 2 3\n",
			wantErr: ErrTruncated,
		},
		{
			name:    "short header",
			input:   "1 1 0\n",
			wantErr: ErrMalformedLine,
		},
		{
			name:    "non numeric length",
			input:   "0 0 0 0\n1 1 1 1 1 1\n1\n1 2 far\n",
			wantErr: ErrMalformedLine,
		},
		{
			name:    "negative count",
			input:   "-1 0 0 0\n",
			wantErr: ErrMalformedLine,
		},
		{
			name:    "depot without attribute",
			input:   "0 0 1 0\n1 1 1 1 1 1\n0\n4 104.1 30.1\n",
			wantErr: ErrMalformedLine,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInstance(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadInstanceLeftoverAndBlankLines(t *testing.T) {
	input := "1 0 0 0\n\n1 1 1 1 1 1\n0\n\n9 1.5 2.5\nstray line\n\n"
	inst, leftover, err := ReadInstanceWithLeftover(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Node{NewNode(9, 1.5, 2.5)}, inst.Demands)
	assert.Equal(t, 1, leftover)
}

func TestReadInstanceFloatIDs(t *testing.T) {
	input := "1 1 0 0\n1 1 1 1 1 1\n1\n3.0 4.0 12\n17.0 104.5 30.5\n18 104.6 30.6 42.0\n"
	inst, err := ReadInstance(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, NewEdge(3, 4, 12), inst.Edges[0])
	assert.Equal(t, 17, inst.Demands[0].ID)
	assert.Equal(t, 42, inst.ExtraDemands[0].ArrivalTime)
}

func TestWriteReadFile(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
	}{
		{name: "plain text", filename: "output_data_weighted.txt"},
		{name: "bzip2", filename: "output_data_weighted.txt.bz2"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.filename)
			want := sampleInstance()

			require.NoError(t, WriteFile(path, want))
			got, err := ReadFile(path, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, want, got)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file must not be left behind")
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMissingInput)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	inst := sampleInstance()
	require.NoError(t, inst.Validate())

	inst.VehicleDepots[0].Attr = 6
	assert.ErrorIs(t, inst.Validate(), ErrInvalidInstance)

	inst = sampleInstance()
	inst.ExtraDemands[0].ArrivalTime = 1440
	assert.ErrorIs(t, inst.Validate(), ErrInvalidInstance)

	inst = sampleInstance()
	inst.ExtraDemands[0], inst.ExtraDemands[1] = inst.ExtraDemands[1], inst.ExtraDemands[0]
	assert.ErrorIs(t, inst.Validate(), ErrInvalidInstance)
}
