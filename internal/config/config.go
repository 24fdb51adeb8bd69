package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the gorm dialector. Path is used by sqlite, DSN by mysql and postgres.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	LogMode      bool   `mapstructure:"log_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type SecurityConfig struct {
	PasswordHasher   string `mapstructure:"password_hasher"`
	PBKDF2Iterations int    `mapstructure:"pbkdf2_iterations"`
	BcryptCost       int    `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AccessConfig controls how the record endpoints see the store.
// OwnerScoped restricts list/detail to the bearer's own records.
type AccessConfig struct {
	OwnerScoped bool `mapstructure:"owner_scoped"`
	PageSize    int  `mapstructure:"page_size"`
}

type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Access   AccessConfig   `mapstructure:"access"`
	Export   ExportConfig   `mapstructure:"export"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/finance.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.issuer", "finance-tracker")
	v.SetDefault("jwt.access_ttl", "5m")
	v.SetDefault("jwt.refresh_ttl", "24h")

	v.SetDefault("security.password_hasher", "pbkdf2_sha256")
	v.SetDefault("security.pbkdf2_iterations", 600000)
	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("access.owner_scoped", false)
	v.SetDefault("access.page_size", 20)

	v.SetDefault("export.sheet_name", "Transactions")
}

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, "config.yaml" in the working directory is used when present;
// a missing default file is not an error. Environment variables override file
// values, e.g. FT_SERVER_PORT=9000 or FT_JWT_SECRET=....
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("FT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
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
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver != "sqlite" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	switch c.Security.PasswordHasher {
	case "pbkdf2_sha256", "bcrypt":
	default:
		return fmt.Errorf("unsupported password hasher %q", c.Security.PasswordHasher)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("jwt ttl values must be positive")
	}
	return nil
}
