package config

// Config holds runtime configuration for the server and the admin CLI.
type Config struct {
	Port       string
	AdminToken string
	Log        LogConfig
	Store      StoreConfig
	League     LeagueConfig
	Markers    MarkerConfig
	Reminder   ReminderConfig
	HTTP       HTTPConfig
	Webhooks   WebhookConfig
	Metrics    MetricsConfig
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		AdminToken: envOrDefault(envAdminToken, ""),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, "info"),
			Format: envOrDefault(envLogFormat, "text"),
		},
		Store:    loadStore(),
		League:   loadLeague(),
		Markers:  loadMarkers(),
		Reminder: loadReminder(),
		HTTP:     loadHTTP(),
		Webhooks: loadWebhooks(),
		Metrics:  loadMetrics(),
	}
}
