package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Lock      LockConfig      `mapstructure:"lock"`
	Gradebook GradebookConfig `mapstructure:"gradebook"`
	Game      GameConfig      `mapstructure:"game"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig Driver 取值 mysql / postgres / sqlite，sqlite 时只使用 Path
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
	Path      string
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LockConfig 控制同一关卡尝试 start/finish 的互斥
type LockConfig struct {
	TTLSeconds  int `mapstructure:"ttl_seconds"`
	WaitSeconds int `mapstructure:"wait_seconds"`
}

// GradebookConfig Driver 取值 log / http / amqp
// 运维脚本直接用 yaml 解析这一段，两套 tag 需保持一致
type GradebookConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	URL         string `mapstructure:"url" yaml:"url"`
	Token       string `mapstructure:"token" yaml:"token"`
	TimeoutSecs int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	AMQPURL     string `mapstructure:"amqp_url" yaml:"amqp_url"`
	Queue       string `mapstructure:"queue" yaml:"queue"`
}

type GameConfig struct {
	ClientURL string `mapstructure:"client_url"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func (c LockConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c LockConfig) Wait() time.Duration {
	if c.WaitSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.WaitSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "gabigame.db")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("lock.ttl_seconds", 10)
	v.SetDefault("lock.wait_seconds", 5)
	v.SetDefault("gradebook.driver", "log")
	v.SetDefault("gradebook.timeout_seconds", 10)
	v.SetDefault("gradebook.queue", "gabigame.grades")
	v.SetDefault("game.client_url", "/game/index.html")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("rate_limit.max_requests", 100000)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GABIGAME")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.path", "DATABASE_PATH")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Gradebook
	v.BindEnv("gradebook.driver", "GRADEBOOK_DRIVER")
	v.BindEnv("gradebook.url", "GRADEBOOK_URL")
	v.BindEnv("gradebook.token", "GRADEBOOK_TOKEN")
	v.BindEnv("gradebook.amqp_url", "GRADEBOOK_AMQP_URL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	switch cfg.Gradebook.Driver {
	case "log", "http", "amqp":
	default:
		return nil, fmt.Errorf("unsupported gradebook driver %q", cfg.Gradebook.Driver)
	}

	return &cfg, nil
}
