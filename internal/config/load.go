package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// an optional config.yaml in the working directory; a non-empty path must exist.
func LoadFile(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadScheduler reads only the scheduler section. Tools that never touch the
// database use it so they do not need a database URL.
func LoadScheduler(path string) (*SchedulerConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	// Unmarshal walks every key, so environment overrides of nested scheduler
	// keys are applied; UnmarshalKey would only see file values and defaults.
	var partial struct {
		Scheduler SchedulerConfig `mapstructure:"scheduler"`
	}
	if err := v.Unmarshal(&partial); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scheduler config: %w", err)
	}

	if err := validator.New().Struct(partial.Scheduler); err != nil {
		return nil, fmt.Errorf("scheduler config validation failed: %w", err)
	}

	return &partial.Scheduler, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal. database.url has no default and must be provided.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	defaults := fsrs.DefaultParamsConfig()
	v.SetDefault("scheduler.request_retention", defaults.RequestRetention)
	v.SetDefault("scheduler.maximum_interval", defaults.MaximumInterval)
	v.SetDefault("scheduler.weights", append([]float64(nil), defaults.Weights...))
	v.SetDefault("scheduler.learning_steps.again", 1)
	v.SetDefault("scheduler.learning_steps.hard", 5)
	v.SetDefault("scheduler.learning_steps.good", 10)
	v.SetDefault("scheduler.learning_steps.easy", 60)
	v.SetDefault("scheduler.graduation_threshold", defaults.GraduationThreshold)

	v.SetDefault("session.new_cards_per_day", 20)
	v.SetDefault("session.max_due_cards", 200)
}
