package config

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/internal/postgres"
	"github.com/solstream-labs/creator-gateway/modules/registry/repository/chain"
	"github.com/solstream-labs/creator-gateway/modules/registry/session"
	"github.com/solstream-labs/creator-gateway/pkg/ipfs"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
	"github.com/solstream-labs/creator-gateway/pkg/middleware/requestcontext"
	"github.com/solstream-labs/creator-gateway/pkg/middleware/requestlogger"
	"github.com/solstream-labs/creator-gateway/pkg/solana"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
		Solana: solana.Config{
			Commitment: "confirmed",
		},
	}
)

type Config struct {
	Logger       logger.Config  `mapstructure:"logger"`
	HTTPServer   HTTPServer     `mapstructure:"http_server"`
	Solana       solana.Config  `mapstructure:"solana"`
	Programs     chain.Config   `mapstructure:"programs"`
	Storage      ipfs.Config    `mapstructure:"storage"`
	Session      session.Config `mapstructure:"session"`
	Content      Content        `mapstructure:"content"`
	Claims       Claims         `mapstructure:"claims"`
	AdminWallets []string       `mapstructure:"admin_wallets"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

type Content struct {
	// MasterKey is the hex-encoded key-derivation secret. At least 32
	// bytes once decoded.
	MasterKey string `mapstructure:"master_key"`
}

type Claims struct {
	Postgres postgres.Config `mapstructure:"postgres"`
}

// Parse reads the configuration once: the given file if set, otherwise
// ./config.yaml, overridable by environment variables.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the parsed configuration. Parse must have run first; the
// root command does this on initialization.
func Load() Config {
	return *config
}

// BindPFlag binds a command-line flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Failed to bind flag to configuration",
			slogx.Error(err), slogx.String("key", key))
	}
}
