package config

import (
	"github.com/spf13/viper"

	"finforge/internal/logger"
)

// Runtime holds process-level configuration read from the environment.
type Runtime struct {
	Addr      string
	DataDir   string
	GamesFile string
	RedisURL  string // empty means no Redis, sessions are tracked in memory
	Log       logger.Config
}

// LoadRuntime reads runtime configuration from environment variables,
// falling back to defaults suitable for local development.
func LoadRuntime() *Runtime {
	v := viper.New()

	v.SetDefault("APP_ADDR", ":5000")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("GAMES_FILE", "games.yaml")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/finforge.log")

	v.AutomaticEnv()

	return &Runtime{
		Addr:      v.GetString("APP_ADDR"),
		DataDir:   v.GetString("DATA_DIR"),
		GamesFile: v.GetString("GAMES_FILE"),
		RedisURL:  v.GetString("REDIS_URL"),
		Log: logger.Config{
			Level:    v.GetString("LOG_LEVEL"),
			Format:   v.GetString("LOG_FORMAT"),
			Output:   v.GetString("LOG_OUTPUT"),
			FilePath: v.GetString("LOG_FILE"),
		},
	}
}
