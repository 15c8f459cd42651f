package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/trajplan/internal/domain"
)

// Config holds the trajplan service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Planning PlanningConfig `yaml:"planning"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverRedis = "redis"
	DriverNone  = "none" // plans are kept in process memory
)

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, none (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PlanningConfig holds planner defaults. Request parameters override the first three.
type PlanningConfig struct {
	MaxAngleDeg    float64 `yaml:"max_angle_deg"`
	Precision      float64 `yaml:"precision"`
	MaxLengthMM    float64 `yaml:"max_length_mm"` // 0 = unbounded
	SamplingStep   float64 `yaml:"sampling_step"`
	NormalRadiusMM float64 `yaml:"normal_radius_mm"`
	Workers        int     `yaml:"workers"` // 0 = GOMAXPROCS
	MaxRequestMB   int     `yaml:"max_request_mb"`
	MaxVoxels      int     `yaml:"max_voxels"` // per mask
}

// Params returns the planner defaults applied to requests that leave them unset.
func (p PlanningConfig) Params() domain.Params {
	maxLength := math.Inf(1)
	if p.MaxLengthMM > 0 {
		maxLength = p.MaxLengthMM
	}
	return domain.Params{MaxAngleDeg: p.MaxAngleDeg, Precision: p.Precision, MaxLength: maxLength}
}

// CacheConfig holds plan cache and retention settings.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSec     int  `yaml:"ttl_sec"`      // cached result for identical requests
	PlanTTLSec int  `yaml:"plan_ttl_sec"` // stored plans, 0 = keep forever
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Planning.MaxAngleDeg == 0 {
		c.Planning.MaxAngleDeg = 55
	}
	if c.Planning.Precision == 0 {
		c.Planning.Precision = 0.01
	}
	if c.Planning.SamplingStep <= 0 {
		c.Planning.SamplingStep = 0.01
	}
	if c.Planning.NormalRadiusMM <= 0 {
		c.Planning.NormalRadiusMM = 5
	}
	if c.Planning.MaxRequestMB <= 0 {
		c.Planning.MaxRequestMB = 256
	}
	if c.Planning.MaxVoxels <= 0 {
		c.Planning.MaxVoxels = 1 << 26
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "trajplan:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
	case DriverNone:
		if c.Cache.Enabled {
			return fmt.Errorf("cache.enabled requires a database driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverNone, c.Database.Driver)
	}
	p := c.Planning
	if p.MaxAngleDeg < 0 || p.MaxAngleDeg > 90 {
		return fmt.Errorf("planning.max_angle_deg must be within [0, 90], got %v", p.MaxAngleDeg)
	}
	if p.Precision < 0.001 || p.Precision > 0.1 {
		return fmt.Errorf("planning.precision must be within [0.001, 0.1], got %v", p.Precision)
	}
	if p.MaxLengthMM < 0 {
		return fmt.Errorf("planning.max_length_mm must not be negative, got %v", p.MaxLengthMM)
	}
	if p.SamplingStep > 1 {
		return fmt.Errorf("planning.sampling_step must be within (0, 1], got %v", p.SamplingStep)
	}
	if p.Workers < 0 {
		return fmt.Errorf("planning.workers must not be negative, got %d", p.Workers)
	}
	if c.Cache.PlanTTLSec < 0 {
		return fmt.Errorf("cache.plan_ttl_sec must not be negative, got %d", c.Cache.PlanTTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
