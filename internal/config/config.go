package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address      string   `mapstructure:"address"`
	Port         int      `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type StorageConfig struct {
	Driver  string `mapstructure:"driver"` // memory, bolt, sqlite, mysql
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	Mode       string `mapstructure:"mode"` // development, production
	Level      string `mapstructure:"level"`
	FileEnable bool   `mapstructure:"file_enable"`
	Filename   string `mapstructure:"filename"`
}

type POSConfig struct {
	Location          string `mapstructure:"location"`
	LowStockThreshold int    `mapstructure:"low_stock_threshold"`
	LowStockCron      string `mapstructure:"low_stock_cron"`
	SeedDefaults      bool   `mapstructure:"seed_defaults"`
	SampleSales       int    `mapstructure:"sample_sales"`
	NodeID            int64  `mapstructure:"node_id"` // -1 derives it from the device id
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Log     LogConfig     `mapstructure:"log"`
	POS     POSConfig     `mapstructure:"pos"`
	AI      AIConfig      `mapstructure:"ai"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.path", "data/pos.db")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.log_mode", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_enable", false)
	v.SetDefault("log.filename", "logs/pos.log")

	v.SetDefault("pos.location", "Local")
	v.SetDefault("pos.low_stock_threshold", 10)
	v.SetDefault("pos.low_stock_cron", "0 8 * * *")
	v.SetDefault("pos.seed_defaults", true)
	v.SetDefault("pos.sample_sales", 0)
	v.SetDefault("pos.node_id", -1)

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash-001")
}

// Load reads .env, then the optional YAML file at path, then POS_* environment
// overrides (e.g. POS_STORAGE_DRIVER=memory).
func Load(path string) (*Config, error) {
	// .env is optional, same as in development setups without one
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrap(err, "read config")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "stat config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	// legacy variable names from the .env the POS has always shipped with
	if c.Storage.DSN == "" {
		c.Storage.DSN = os.Getenv("DB_DSN")
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "bolt", "sqlite":
	case "mysql":
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the mysql driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.ExpireHours <= 0 {
		return errors.New("jwt.expire_hours must be positive")
	}
	if c.POS.LowStockThreshold < 0 {
		return errors.New("pos.low_stock_threshold must not be negative")
	}
	return nil
}
