package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Email    EmailConfig    `mapstructure:"email"    validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	LogLevel       string        `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig contains the cache backend settings. Host and port are read
// from process configuration at startup; the TTL applies to the cached
// long-operation endpoint.
type CacheConfig struct {
	Host             string        `mapstructure:"host"               validate:"required"`
	Port             int           `mapstructure:"port"               validate:"required,gt=0,lt=65536"`
	LongOperationTTL time.Duration `mapstructure:"long_operation_ttl" validate:"required"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"       validate:"required"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"       validate:"required"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"      validate:"required"`
}

// EmailConfig contains the outbound email delivery settings used by the
// background report worker.
type EmailConfig struct {
	AWSRegion   string `mapstructure:"aws_region"   validate:"required"`
	FromAddress string `mapstructure:"from_address" validate:"required,email"`
}

// TaskConfig contains the background task runner settings.
type TaskConfig struct {
	WorkerCount            int           `mapstructure:"worker_count"              validate:"required,gt=0"`
	QueueSize              int           `mapstructure:"queue_size"                validate:"required,gt=0"`
	StuckTaskAge           time.Duration `mapstructure:"stuck_task_age"            validate:"required"`
	StuckTaskCheckInterval time.Duration `mapstructure:"stuck_task_check_interval" validate:"required"`
}
