package config

import "go.uber.org/fx"

// Module supplies an already loaded Config and exposes its sections.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(c *Config) *EndpointConfig { return &c.Backend },
			func(c *Config) *AuthConfig { return &c.Auth },
			func(c *Config) *StorageConfig { return &c.Storage },
			func(c *Config) *WebConfig { return &c.Web },
			func(c *Config) *LoggingConfig { return &c.Logging },
		),
	)
}
