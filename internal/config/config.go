package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// RemoteConfig enables the optional remote sync backend.
type RemoteConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	DSN      string `mapstructure:"dsn"`
	RecordID uint   `mapstructure:"record_id"`
	LogMode  bool   `mapstructure:"log_mode"`
}

type SecurityConfig struct {
	EncryptionKey  string `mapstructure:"encryption_key"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	PassphraseHash string `mapstructure:"passphrase_hash"`
	TokenTTLHours  int    `mapstructure:"token_ttl_hours"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type BackupConfig struct {
	Dir      string `mapstructure:"dir"`
	Schedule string `mapstructure:"schedule"` // cron expression, empty disables
	Keep     int    `mapstructure:"keep"`
}

type AppSubConfig struct {
	BusinessName string   `mapstructure:"business_name"`
	Currency     string   `mapstructure:"currency"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	App      AppSubConfig   `mapstructure:"app"`
}

// AuthEnabled reports whether API calls need a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Security.PassphraseHash != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/bookkeeping.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.record_id", 1)
	v.SetDefault("security.token_ttl_hours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.keep", 14)
	v.SetDefault("app.business_name", "Gevers Painting Account")
	v.SetDefault("app.currency", "USD")
	v.SetDefault("app.cors_origins", []string{"http://localhost:3000"})
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// A missing file is not an error: defaults plus BOOK_* environment
// variables are used instead. A .env file in the working directory is
// loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. BOOK_SERVER_PORT=9000
	v.SetEnvPrefix("BOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Remote.Enabled && c.Remote.DSN == "" {
		return fmt.Errorf("remote.dsn is required when remote.enabled is set")
	}
	if c.Remote.RecordID == 0 {
		c.Remote.RecordID = 1
	}
	if c.AuthEnabled() && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required when passphrase_hash is set")
	}
	if c.Backup.Schedule != "" && c.Security.EncryptionKey == "" {
		return fmt.Errorf("security.encryption_key is required for scheduled backups")
	}
	return nil
}
