package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lintang-b-s/dronedelivery/pkg/generator"
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/logger"
	"github.com/lintang-b-s/dronedelivery/pkg/tablesource"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	droneSpeed   = flag.Float64("vu", 20, "无人机速度 (默认 20)")
	vehicleSpeed = flag.Float64("vc", 10, "车辆速度 (默认 10)")
	droneCost    = flag.Float64("cu", 0.84, "无人机运送货物的成本 (默认 0.84)")
	vehicleCost  = flag.Float64("cc", 0.62, "货车运送货物的成本 (默认 0.62)")
	timeWeight   = flag.Float64("om", 0.1, "配送时间权重 (默认 0.1)")
	droneMaxLoad = flag.Float64("qu", 20, "无人机最大载重 (默认 20)")

	demandTable = flag.String("demand", "require.xlsx", "demand table (.xlsx or .csv)")
	roadTable   = flag.String("road", "road_new.xlsx", "road table (.xlsx or .csv)")
	outputPath  = flag.String("out", "output_data_weighted.txt", "instance output path, .bz2 suffix compresses")
	seed        = flag.Uint64("seed", 0, "random seed (default: current time)")
	count       = flag.Int("count", 1, "number of instances to generate, seeds seed..seed+count-1")
	workers     = flag.Int("workers", 4, "parallel workers for -count > 1")

	demandCount       = flag.Int("n", -1, "default demand count (prompted when absent)")
	extraDemandCount  = flag.Int("extra", -1, "extra demand count (prompted when absent)")
	vehicleDepotCount = flag.Int("cars", -1, "vehicle depot count (prompted when absent)")
	droneDepotCount   = flag.Int("uavs", -1, "drone depot count (prompted when absent)")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	paths, err := run(logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("instance generation failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Printf("文件已保存为 %s\n", p)
	}
}

func run(log *zap.Logger, in io.Reader, out io.Writer) ([]string, error) {
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	floatOption := func(name string, val float64, key string) float64 {
		if explicit[name] {
			return val
		}
		return viper.GetFloat64(key)
	}
	stringOption := func(name string, val string, key string) string {
		if explicit[name] {
			return val
		}
		return viper.GetString(key)
	}

	params := instance.Params{
		DroneSpeed:   floatOption("vu", *droneSpeed, "GENERATOR_DRONE_SPEED"),
		VehicleSpeed: floatOption("vc", *vehicleSpeed, "GENERATOR_VEHICLE_SPEED"),
		DroneCost:    floatOption("cu", *droneCost, "GENERATOR_DRONE_COST"),
		VehicleCost:  floatOption("cc", *vehicleCost, "GENERATOR_VEHICLE_COST"),
		DroneMaxLoad: floatOption("qu", *droneMaxLoad, "GENERATOR_DRONE_MAX_LOAD"),
		TimeWeight:   floatOption("om", *timeWeight, "GENERATOR_TIME_WEIGHT"),
	}

	demandRows, err := tablesource.LoadDemandTable(stringOption("demand", *demandTable, "GENERATOR_DEMAND_TABLE"), log)
	if err != nil {
		return nil, err
	}
	roadRows, err := tablesource.LoadRoadTable(stringOption("road", *roadTable, "GENERATOR_ROAD_TABLE"), log)
	if err != nil {
		return nil, err
	}
	gen := generator.NewGenerator(demandRows, roadRows, log)

	br := bufio.NewReader(in)
	limit := len(demandRows)
	counts := []struct {
		val    *int
		prompt string
	}{
		{demandCount, fmt.Sprintf("请输入默认需求数量 (小于%d): ", limit)},
		{extraDemandCount, fmt.Sprintf("请输入额外需求数量 (小于%d): ", limit)},
		{vehicleDepotCount, "请输入车辆数量: "},
		{droneDepotCount, "请输入无人机数量: "},
	}
	for _, c := range counts {
		if *c.val >= 0 {
			continue
		}
		if *c.val, err = promptInt(br, out, c.prompt); err != nil {
			return nil, err
		}
	}

	instanceSeed := *seed
	if !explicit["seed"] {
		instanceSeed = uint64(time.Now().UnixNano())
	}
	log.Info("generating instances", zap.Uint64("seed", instanceSeed), zap.Int("count", *count))

	cfg := generator.NewConfig(*demandCount, *extraDemandCount, *vehicleDepotCount, *droneDepotCount,
		params, instanceSeed)

	numWorkers := *workers
	if !explicit["workers"] {
		numWorkers = viper.GetInt("GENERATOR_WORKERS")
	}
	return gen.GenerateBatch(cfg, *count, numWorkers, stringOption("out", *outputPath, "GENERATOR_OUTPUT"))
}

func promptInt(br *bufio.Reader, out io.Writer, prompt string) (int, error) {
	fmt.Fprint(out, prompt)
	line, err := util.ReadLine(br)
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrConfig, "read answer to %q", strings.TrimSpace(prompt))
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrConfig, "answer to %q must be an integer", strings.TrimSpace(prompt))
	}
	return v, nil
}
