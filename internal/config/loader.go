package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Config file is optional.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (RENTWATCH_*)
	v.SetEnvPrefix("RENTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("plans_file", DefaultPlansFile())

	v.SetDefault("history.backend", DefaultHistoryBackend)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.directory", DefaultHistoryDir())

	v.SetDefault("rendering.timeout", DefaultRenderTimeout)
	v.SetDefault("rendering.wait_stable", DefaultWaitStable)
	v.SetDefault("rendering.headless", true)
	v.SetDefault("rendering.no_browser", false)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.always_notify", false)
	v.SetDefault("notify.smtp_port", DefaultSMTPPort)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
