package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	MinIO    MinIOConfig    `yaml:"minio"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Parser   ParserConfig   `yaml:"parser"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address string   `yaml:"address"`
	APIKeys []string `yaml:"api_keys"` // keyauth bearer tokens; empty disables auth
}

// LLMConfig configures the fallback JSON extractor.
type LLMConfig struct {
	APIKey         string  `yaml:"api_key"`
	APIURL         string  `yaml:"api_url"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// MinIOConfig configures the object store.
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Location        string `yaml:"location"`
	PublicBaseURL   string `yaml:"public_base_url"` // base for unauthenticated object URLs
}

// MySQLConfig configures the metadata store.
type MySQLConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	LogLevel        string `yaml:"log_level"`
}

// DSN assembles the MySQL connection string.
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig configures the dedup/cache store.
type RedisConfig struct {
	Address             string `yaml:"address"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	PoolSize            int    `yaml:"pool_size"`
	MinIdleConns        int    `yaml:"min_idle_conns"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// RabbitMQConfig configures domain-event publishing.
type RabbitMQConfig struct {
	URL                  string `yaml:"url"` // empty disables event publishing
	ResumeEventsExchange string `yaml:"resume_events_exchange"`
	ParsedRoutingKey     string `yaml:"parsed_routing_key"`
}

// LoggerConfig mirrors logger.Config in YAML form.
type LoggerConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	TimeFormat   string `yaml:"time_format"`
	ReportCaller bool   `yaml:"report_caller"`
}

// TracingConfig configures the OTLP exporter.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // OTLP/gRPC collector, host:port
	ServiceName string `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// ParserConfig tunes the hybrid extraction loop.
type ParserConfig struct {
	ConfidenceThreshold int  `yaml:"confidence_threshold"`
	DisableLLMFallback  bool `yaml:"disable_llm_fallback"`
}

// LoadConfig reads configPath (default "config.yaml"), applies environment
// overrides for secrets, and fills defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		// Missing file is tolerated: defaults plus env overrides.
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyEnvOverrides(config)
	applyDefaults(config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_URL"); v != "" {
		config.LLM.APIURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		config.MinIO.AccessKeyID = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		config.MinIO.SecretAccessKey = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		config.MySQL.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
}

func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}
	if config.LLM.TimeoutSeconds == 0 {
		config.LLM.TimeoutSeconds = 45
	}
	if config.MySQL.Port == 0 {
		config.MySQL.Port = 3306
	}
	if config.MySQL.MaxOpenConns == 0 {
		config.MySQL.MaxOpenConns = 50
	}
	if config.MySQL.MaxIdleConns == 0 {
		config.MySQL.MaxIdleConns = 10
	}
	if config.Redis.PoolSize == 0 {
		config.Redis.PoolSize = 10
	}
	if config.RabbitMQ.ResumeEventsExchange == "" {
		config.RabbitMQ.ResumeEventsExchange = "resume.events"
	}
	if config.RabbitMQ.ParsedRoutingKey == "" {
		config.RabbitMQ.ParsedRoutingKey = "resume.parsed"
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = "nurse-ats-go"
	}
	if config.Tracing.SampleRatio == 0 {
		config.Tracing.SampleRatio = 1.0
	}
	if config.Parser.ConfidenceThreshold == 0 {
		config.Parser.ConfidenceThreshold = 55
	}
}

func defaultConfig() *Config {
	return &Config{}
}

// GetDuration parses durationStr, falling back to defaultDuration on empty or
// malformed input.
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
