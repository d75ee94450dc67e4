package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "MYSAVE"

// Config groups all settings of the command line tool. Values are read from
// the optional YAML file, overridden by MYSAVE_* environment variables and
// then by command line flags.
type Config struct {
	RPC    RPCConfig    `mapstructure:"rpc"`
	Wallet WalletConfig `mapstructure:"wallet"`
	Log    LogConfig    `mapstructure:"log"`

	// MySave contract address, LE hex or Neo address.
	MySave string `mapstructure:"mysave"`

	// Root directory of contract sources used by deploy command.
	Contracts string `mapstructure:"contracts"`
}

// RPCConfig describes connection to the Neo RPC server.
type RPCConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WalletConfig points to the account signing transactions.
type WalletConfig struct {
	Path     string `mapstructure:"path"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.endpoint", "http://localhost:30333")
	v.SetDefault("rpc.timeout", 15*time.Second)
	v.SetDefault("wallet.path", "")
	v.SetDefault("wallet.address", "")
	v.SetDefault("wallet.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("mysave", "")
	v.SetDefault("contracts", "")
}

// loadConfig reads configuration into v. Config file is optional, missing
// path means only environment and flags are used.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.RPC.Timeout <= 0 {
		return nil, fmt.Errorf("invalid RPC timeout %s", cfg.RPC.Timeout)
	}

	return &cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}
