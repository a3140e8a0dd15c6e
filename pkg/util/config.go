package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "DRONEDELIVERY"

// ReadConfig loads config.{yaml,json,toml} from ./data/ or the working directory.
// a missing config file is fine, defaults and environment variables still apply.
func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("GENERATOR_DRONE_SPEED", 20.0)
	viper.SetDefault("GENERATOR_VEHICLE_SPEED", 10.0)
	viper.SetDefault("GENERATOR_DRONE_COST", 0.84)
	viper.SetDefault("GENERATOR_VEHICLE_COST", 0.62)
	viper.SetDefault("GENERATOR_TIME_WEIGHT", 0.1)
	viper.SetDefault("GENERATOR_DRONE_MAX_LOAD", 20.0)
	viper.SetDefault("GENERATOR_DEMAND_TABLE", "require.xlsx")
	viper.SetDefault("GENERATOR_ROAD_TABLE", "road_new.xlsx")
	viper.SetDefault("GENERATOR_OUTPUT", "output_data_weighted.txt")
	viper.SetDefault("GENERATOR_WORKERS", 4)

	viper.SetDefault("VISUALIZER_OUTPUT", "route_visualization.png")
	viper.SetDefault("VISUALIZER_WIDTH_INCH", 12.0)
	viper.SetDefault("VISUALIZER_HEIGHT_INCH", 10.0)
	viper.SetDefault("VISUALIZER_DPI", 300)
	viper.SetDefault("VISUALIZER_PORT", 6060)
	viper.SetDefault("VISUALIZER_RATE_LIMIT", 20.0)
	viper.SetDefault("VISUALIZER_RATE_BURST", 40)

	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
}
