package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth" validate:"required"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Oracle       OracleConfig       `mapstructure:"oracle" validate:"required"`
	Gamification GamificationConfig `mapstructure:"gamification" validate:"required"`
	Exercise     ExerciseConfig     `mapstructure:"exercise" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains the settings used to verify bearer tokens issued by
// the external identity service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// LLMConfig contains the Gemini settings. An empty API key disables the
// content oracle; exercises then use fallback content.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
}

// OracleConfig bounds calls to the content oracle.
type OracleConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gte=0"`
	MinInterval    time.Duration `mapstructure:"min_interval" validate:"gte=0"`
	CallTimeout    time.Duration `mapstructure:"call_timeout" validate:"gte=0"`
	// EnrichWords fills new words with dictionary fields from the oracle.
	EnrichWords bool `mapstructure:"enrich_words"`
}

// GamificationConfig contains progression settings.
type GamificationConfig struct {
	// TimeZone is the IANA zone calendar days are counted in.
	TimeZone string `mapstructure:"time_zone" validate:"required,timezone"`
}

// ExerciseConfig contains exercise generation settings.
type ExerciseConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"gte=1,ltefield=MaxLimit"`
	MaxLimit     int `mapstructure:"max_limit" validate:"gte=1,lte=100"`
	// RandomSeed fixes the generator's random source; 0 seeds from the clock.
	RandomSeed int64 `mapstructure:"random_seed"`
}

// Location resolves the configured time zone.
func (g GamificationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(g.TimeZone)
}
