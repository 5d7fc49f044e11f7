package internal

import (
	"strings"

	"github.com/spf13/viper"
)

type BridgeConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	PubAddr   string   `mapstructure:"pub-addr"`
	PeerAddrs []string `mapstructure:"peer-addrs"`
}

type Config struct {
	DBName         string       `mapstructure:"db-name"`
	HTTPServerPort uint16       `mapstructure:"http-server-port"`
	ReadTimeout    int64        `mapstructure:"read-timeout"`
	WriteTimeout   int64        `mapstructure:"write-timeout"`
	SecretKey      string       `mapstructure:"secret-key"`
	EnableLogging  bool         `mapstructure:"enable-logging"`
	LogDir         string       `mapstructure:"log-dir"`
	Bridge         BridgeConfig `mapstructure:"bridge"`
}

// LoadConfig reads config.yaml from the given folder; every key can be
// overridden from the environment (SOCIAL_DB_NAME, SOCIAL_SECRET_KEY, ...).
func LoadConfig(folderPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(folderPath)

	v.SetDefault("db-name", "social.db")
	v.SetDefault("http-server-port", 8080)
	v.SetDefault("read-timeout", 15)
	v.SetDefault("write-timeout", 15)
	v.SetDefault("enable-logging", true)
	v.SetDefault("log-dir", "logs")
	v.SetDefault("bridge.enabled", false)

	v.SetEnvPrefix("SOCIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults plus environment are a complete configuration; a missing
		// file is not an error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
