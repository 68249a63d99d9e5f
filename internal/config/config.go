package config

import (
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Session   SessionConfig   `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// SchedulerConfig holds the FSRS parameters. Every field has a default, so an
// empty section yields the published FSRS-4.5 behaviour.
type SchedulerConfig struct {
	RequestRetention    float64             `mapstructure:"request_retention" validate:"gt=0,lt=1"`
	MaximumInterval     int                 `mapstructure:"maximum_interval" validate:"gte=1,lte=36500"`
	Weights             []float64           `mapstructure:"weights" validate:"len=17"`
	LearningSteps       LearningStepsConfig `mapstructure:"learning_steps" validate:"required"`
	GraduationThreshold int                 `mapstructure:"graduation_threshold" validate:"gte=1"`
}

// LearningStepsConfig is the short-term step delay per rating, in minutes.
type LearningStepsConfig struct {
	Again int `mapstructure:"again" validate:"gt=0"`
	Hard  int `mapstructure:"hard" validate:"gt=0"`
	Good  int `mapstructure:"good" validate:"gt=0"`
	Easy  int `mapstructure:"easy" validate:"gt=0"`
}

// SessionConfig bounds the size of a study session.
type SessionConfig struct {
	NewCardsPerDay int `mapstructure:"new_cards_per_day" validate:"gte=0"`
	MaxDueCards    int `mapstructure:"max_due_cards" validate:"gte=1"`
}

// ParamsConfig converts the scheduler section into the input of fsrs.NewParams.
func (c SchedulerConfig) ParamsConfig() fsrs.ParamsConfig {
	return fsrs.ParamsConfig{
		RequestRetention: c.RequestRetention,
		MaximumInterval:  c.MaximumInterval,
		Weights:          append([]float64(nil), c.Weights...),
		LearningSteps: map[domain.Rating]time.Duration{
			domain.RatingAgain: time.Duration(c.LearningSteps.Again) * time.Minute,
			domain.RatingHard:  time.Duration(c.LearningSteps.Hard) * time.Minute,
			domain.RatingGood:  time.Duration(c.LearningSteps.Good) * time.Minute,
			domain.RatingEasy:  time.Duration(c.LearningSteps.Easy) * time.Minute,
		},
		GraduationThreshold: c.GraduationThreshold,
	}
}

// Params builds validated scheduler parameters from the configuration.
func (c SchedulerConfig) Params() (*fsrs.Params, error) {
	return fsrs.NewParams(c.ParamsConfig())
}
