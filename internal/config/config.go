package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "ACCOUNT_IMPORT"

const (
	BackendPostgres = "postgres"
	BackendFirebase = "firebase"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Identity IdentityConfig `mapstructure:"identity"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Google   GoogleConfig   `mapstructure:"google"`
	Facebook FacebookConfig `mapstructure:"facebook"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Import   ImportConfig   `mapstructure:"import"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Port          int           `mapstructure:"port" validate:"min=1,max=65535"`
	ClientTimeout time.Duration `mapstructure:"client_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type IdentityConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=postgres firebase"`
}

type FirebaseConfig struct {
	APIKey       string `mapstructure:"api_key"`
	ProjectID    string `mapstructure:"project_id"`
	IdentityURL  string `mapstructure:"identity_url" validate:"omitempty,url"`
	FirestoreURL string `mapstructure:"firestore_url" validate:"omitempty,url"`
	// AccessToken authorizes Firestore writes when security rules require it.
	AccessToken string `mapstructure:"access_token"`
}

type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
	Issuer   string `mapstructure:"issuer" validate:"omitempty,url"`
}

type FacebookConfig struct {
	GraphURL string `mapstructure:"graph_url" validate:"omitempty,url"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret" validate:"required"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type ImportConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseDir  string        `mapstructure:"base_dir"`
	Encoding string        `mapstructure:"encoding" validate:"required"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.client_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("identity.backend", BackendPostgres)
	v.SetDefault("firebase.api_key", "")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.identity_url", "https://identitytoolkit.googleapis.com")
	v.SetDefault("firebase.firestore_url", "https://firestore.googleapis.com")
	v.SetDefault("firebase.access_token", "")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.issuer", "https://accounts.google.com")
	v.SetDefault("facebook.graph_url", "https://graph.facebook.com")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("redis.url", "")
	v.SetDefault("import.enabled", false)
	v.SetDefault("import.base_dir", ".")
	v.SetDefault("import.encoding", "utf-8")
	v.SetDefault("import.lock_ttl", 10*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads defaults, then the config file, then ACCOUNT_IMPORT_* environment
// variables. With an empty configFile a config.yaml in the working directory
// is used when present.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Identity.Backend {
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for the postgres backend", ErrInvalidConfig)
		}
	case BackendFirebase:
		if c.Firebase.APIKey == "" || c.Firebase.ProjectID == "" {
			return fmt.Errorf("%w: firebase.api_key and firebase.project_id are required for the firebase backend", ErrInvalidConfig)
		}
	}
	return nil
}
