package config

import (
	"benritz/bonds/internal/pricing"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultProfile   = "default"
)

// Config keeps the runtime configuration shared by the commands and the lambda.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Bond    BondConfig    `yaml:"bond"`
	Solver  SolverConfig  `yaml:"solver"`
	Storage StorageConfig `yaml:"storage"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BondConfig holds the defaults applied to terms not given explicitly.
type BondConfig struct {
	Frequency  int     `yaml:"frequency"`
	FaceAmount float64 `yaml:"face_amount"`
}

type SolverConfig struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// Options renders the solver settings for pricing.Yield.
func (s SolverConfig) Options() []pricing.SolverOption {
	return []pricing.SolverOption{
		pricing.WithTolerance(s.Tolerance),
		pricing.WithMaxIterations(s.MaxIterations),
	}
}

type StorageConfig struct {
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Profile string `yaml:"profile"`
}

func defaults() *Config {
	return &Config{
		Log: LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Bond: BondConfig{
			Frequency:  pricing.DefaultFrequency,
			FaceAmount: pricing.DefaultFaceAmount,
		},
		Solver: SolverConfig{
			Tolerance:     pricing.DefaultTolerance,
			MaxIterations: pricing.DefaultMaxIterations,
		},
		Storage: StorageConfig{Profile: defaultProfile},
	}
}

// Load builds Config from the optional BONDS_CONFIG_FILE and then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("BONDS_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	var err error

	cfg.Log.Level = getString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getString("LOG_FORMAT", cfg.Log.Format)

	if cfg.Bond.Frequency, err = getInt("BOND_FREQUENCY", cfg.Bond.Frequency); err != nil {
		return nil, fmt.Errorf("parse BOND_FREQUENCY: %w", err)
	}

	if cfg.Bond.FaceAmount, err = getFloat("BOND_FACE_AMOUNT", cfg.Bond.FaceAmount); err != nil {
		return nil, fmt.Errorf("parse BOND_FACE_AMOUNT: %w", err)
	}

	if cfg.Solver.Tolerance, err = getFloat("SOLVER_TOLERANCE", cfg.Solver.Tolerance); err != nil {
		return nil, fmt.Errorf("parse SOLVER_TOLERANCE: %w", err)
	}

	if cfg.Solver.MaxIterations, err = getInt("SOLVER_MAX_ITERATIONS", cfg.Solver.MaxIterations); err != nil {
		return nil, fmt.Errorf("parse SOLVER_MAX_ITERATIONS: %w", err)
	}

	cfg.Storage.Bucket = getString("GILTS_DATA_BUCKET_NAME", cfg.Storage.Bucket)
	cfg.Storage.Prefix = getString("GILTS_DATA_BUCKET_PREFIX", cfg.Storage.Prefix)
	cfg.Storage.Profile = getString("AWS_PROFILE", cfg.Storage.Profile)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Bond.Frequency <= 0 {
		return errors.New("bond frequency must be positive")
	}
	if c.Bond.FaceAmount <= 0 {
		return errors.New("bond face amount must be positive")
	}
	if c.Solver.Tolerance <= 0 {
		return errors.New("solver tolerance must be positive")
	}
	if c.Solver.MaxIterations <= 0 {
		return errors.New("solver max iterations must be positive")
	}
	return nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to float: %w", key, value, err)
	}
	return parsed, nil
}
