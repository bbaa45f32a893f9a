package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Logger    Logger
	Vidu      ViduConfig
	Fallback  FallbackConfig
	Gateway   GatewayConfig
	Video     VideoConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
	S3        S3Config
}

type ServerConfig struct {
	AppVersion    string
	Port          string
	Mode          string
	PublicBaseURL string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// ViduConfig drives the primary text-to-video provider.
type ViduConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	DurationSeconds   int
	AspectRatio       string
	Resolution        string
	MovementAmplitude string
	RequestTimeoutSec int
	PollIntervalSec   int
	PollAttempts      int
}

// FallbackConfig drives the secondary synchronous inference provider.
type FallbackConfig struct {
	SpaceURL          string
	Token             string
	NumFrames         int
	InferenceSteps    int
	RequestTimeoutSec int
}

type GatewayConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
}

type VideoConfig struct {
	Dir                 string
	PlaceholderFile     string
	CompressThresholdMB float64
	RetentionHours      int
	JobTTLHours         int
	StateTTLMinutes     int
	WelcomeTTLHours     int
}

type RateLimitConfig struct {
	WindowSeconds int
	MaxRequests   int
}

type WorkerConfig struct {
	MaxConcurrentJobs int
	MaxCPUUsage       float64
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) JobTTL() time.Duration {
	if c.Video.JobTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Video.JobTTLHours) * time.Hour
}

func (c *Config) StateTTL() time.Duration {
	if c.Video.StateTTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Video.StateTTLMinutes) * time.Minute
}

func (c *Config) WelcomeTTL() time.Duration {
	if c.Video.WelcomeTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.Video.WelcomeTTLHours) * time.Hour
}

func (c *Config) RateWindow() time.Duration {
	if c.RateLimit.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) RateMax() int {
	if c.RateLimit.MaxRequests <= 0 {
		return 6
	}
	return c.RateLimit.MaxRequests
}

func (c *Config) PollInterval() time.Duration {
	if c.Vidu.PollIntervalSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Vidu.PollIntervalSec) * time.Second
}

func (c *Config) PollAttempts() int {
	if c.Vidu.PollAttempts <= 0 {
		return 120
	}
	return c.Vidu.PollAttempts
}
