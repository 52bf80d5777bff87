package config

import (
	"errors"
	"fmt"
	"strings"

	"pace_service_tool/internal/logger"
	"pace_service_tool/internal/repository"
	"pace_service_tool/internal/server"

	"github.com/spf13/viper"
)

type Config struct {
	Server    server.Config   `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Log       logger.Config   `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Codec string `mapstructure:"codec"` // json | msgpack
}

type TelemetryConfig struct {
	// Seed fixes the simulator's random source; 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

const envPrefix = "PST"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("db.path", "pst.db")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.encoding", logger.ConsoleEncoding)
	v.SetDefault("storage.codec", repository.CodecJSON)
	v.SetDefault("telemetry.seed", 0)
}

// Load reads config.yml from the given directories, then PST_* env vars.
// A missing file is not an error; defaults apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
