package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`   // 0.0.0.0
		HTTPPort string `mapstructure:"http_port"` // 8080
	} `mapstructure:"server"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal|off
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // file prefix, empty = stdout only
	} `mapstructure:"logs"`

	Inventory struct {
		File   string   `mapstructure:"file"`
		Groups []string `mapstructure:"groups"`
	} `mapstructure:"inventory"`

	Probe struct {
		Method   string        `mapstructure:"method"` // exec|icmp
		Command  string        `mapstructure:"command"`
		Timeout  time.Duration `mapstructure:"timeout"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"probe"`
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("injdash", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, toml or json)")
	fs.String("inventory", "", "inventory CSV file")
	fs.String("address", "", "listen address")
	fs.String("port", "", "listen port")
	return fs
}

var flagKeys = map[string]string{
	"inventory": "inventory.file",
	"address":   "server.address",
	"port":      "server.http_port",
}

// Load reads .env, the environment, an optional config file and args.
// Precedence: flags > env > file > defaults.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env read error: %w", err)
	}

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", "8080")

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")
	v.SetDefault("logs.file", "")

	v.SetDefault("inventory.file", "injetoras.csv")
	v.SetDefault("inventory.groups", []string{"A3", "A4", "A5"})

	v.SetDefault("probe.method", "exec")
	v.SetDefault("probe.command", "ping")
	v.SetDefault("probe.timeout", time.Second)
	v.SetDefault("probe.cache_ttl", 60*time.Second)

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfgFile, _ := fs.GetString("config")
	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "injdash"))
		}
		v.AddConfigPath("/etc/injdash")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(args []string) *Config {
	cfg, err := Load(args)
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	if strings.TrimSpace(c.Inventory.File) == "" {
		return errors.New("inventory.file must not be empty")
	}
	if len(c.Inventory.Groups) == 0 {
		return errors.New("inventory.groups must list at least one group")
	}
	switch c.Probe.Method {
	case "exec", "icmp":
	default:
		return fmt.Errorf("probe.method must be exec or icmp, got %q", c.Probe.Method)
	}
	if c.Probe.Method == "exec" && strings.TrimSpace(c.Probe.Command) == "" {
		return errors.New("probe.command must not be empty")
	}
	if c.Probe.Timeout <= 0 {
		return errors.New("probe.timeout must be positive")
	}
	if c.Probe.CacheTTL <= 0 {
		return errors.New("probe.cache_ttl must be positive")
	}
	return nil
}
