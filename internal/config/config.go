// Package config loads cbh settings from flags, CBH_* environment variables and an optional cbh.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/resolver"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/host"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CBH_ENGINE_FAMILY.
const EnvPrefix = "CBH"

// FileName is the config file looked up in the working directory when no path is given.
const FileName = "cbh"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config is the full cbh configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Library LibraryConfig `mapstructure:"library" yaml:"library"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	MCP     MCPConfig     `mapstructure:"mcp" yaml:"mcp"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level string              `mapstructure:"level" yaml:"level"`
	File  logging.FileOptions `mapstructure:"file" yaml:"file"`
}

// EngineConfig configures the humanoid engine.
type EngineConfig struct {
	Family string `mapstructure:"family" yaml:"family"`
	// Roles restricts the visited roles; empty means all canonical roles.
	Roles []string `mapstructure:"roles" yaml:"roles"`
	// Aliases adds bone names per role to the naming-convention table.
	Aliases map[string][]string `mapstructure:"aliases" yaml:"aliases"`
}

// StoreConfig selects where stored scenes live.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Timeout bounds each store call; zero disables it.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	File    FileConfig    `mapstructure:"file" yaml:"file"`
}

// FileConfig configures the JSON-file scene store.
type FileConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// RedisConfig configures the Redis scene store and lock.
type RedisConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Lock     bool          `mapstructure:"lock" yaml:"lock"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// LibraryConfig points at a directory of scene documents.
type LibraryConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ServerConfig configures `cbh serve`.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	Metrics         bool          `mapstructure:"metrics" yaml:"metrics"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MCPConfig configures `cbh mcp`.
type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("engine.family", string(host.DefaultFamily))
	v.SetDefault("engine.roles", []string{})

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.timeout", "5s")
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "cbh:scene:")
	v.SetDefault("store.redis.ttl", "0s")
	v.SetDefault("store.redis.lock", true)
	v.SetDefault("store.redis.lock_ttl", "30s")
	v.SetDefault("store.file.dir", ".cbh/scenes")

	v.SetDefault("library.dir", "")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8081)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads configuration into v and decodes it. An empty path looks for ./cbh.yaml
// and tolerates its absence; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := host.ParseFamily(c.Engine.Family); err != nil {
		return fmt.Errorf("engine.family: %w", err)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendFile:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport: unknown transport %q", c.MCP.Transport)
	}
	_, err := c.EngineOptions()
	return err
}

// EngineOptions translates the engine section into humanoid options.
func (c *Config) EngineOptions() ([]humanoid.Option, error) {
	family, err := host.ParseFamily(c.Engine.Family)
	if err != nil {
		return nil, err
	}
	opts := []humanoid.Option{humanoid.WithFamily(family)}

	if len(c.Engine.Roles) > 0 {
		roles := make([]domain.BoneRole, 0, len(c.Engine.Roles))
		for _, name := range c.Engine.Roles {
			role, err := domain.ParseBoneRole(name)
			if err != nil {
				return nil, fmt.Errorf("engine.roles: %w", err)
			}
			roles = append(roles, role)
		}
		opts = append(opts, humanoid.WithRoles(roles...))
	}

	if len(c.Engine.Aliases) > 0 {
		names := make([]string, 0, len(c.Engine.Aliases))
		for name := range c.Engine.Aliases {
			names = append(names, name)
		}
		sort.Strings(names)

		var nameOpts []resolver.NameOption
		for _, name := range names {
			role, err := domain.ParseBoneRole(name)
			if err != nil {
				return nil, fmt.Errorf("engine.aliases: %w", err)
			}
			nameOpts = append(nameOpts, resolver.WithAliases(role, c.Engine.Aliases[name]...))
		}
		opts = append(opts, humanoid.WithLocator(resolver.Described(resolver.NewNameLocator(nameOpts...))))
	}
	return opts, nil
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
