package config

import "time"

// HTTPConfig holds API surface settings.
type HTTPConfig struct {
	CORSAllowOrigins []string
	RateLimitEnabled bool
	RateLimitReqs    int
	RateLimitWindow  time.Duration

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only behind
	// a proxy that overwrites those headers.
	TrustProxy bool
}

// WebhookConfig holds outbound notification endpoints. Empty URLs disable the channel.
type WebhookConfig struct {
	AdminURL     string
	DecisionsURL string
	IncidentsURL string
	DMRelayURL   string
	Timeout      time.Duration
}

// Enabled reports whether any webhook endpoint is configured.
func (w WebhookConfig) Enabled() bool {
	return w.AdminURL != "" || w.DecisionsURL != "" || w.IncidentsURL != "" || w.DMRelayURL != ""
}

func loadHTTP() HTTPConfig {
	return HTTPConfig{
		CORSAllowOrigins: listEnvOrDefault(envCORSOrigins, defaultCORSOrigins),
		RateLimitEnabled: boolEnvOrDefault(envRateLimitOn, true),
		RateLimitReqs:    intEnvOrDefault(envRateLimitReqs, defaultRateLimitReqs),
		RateLimitWindow:  durationEnvOrDefault(envRateLimitWindow, defaultRateLimitWindow),
		TrustProxy:       boolEnvOrDefault(envTrustProxy, false),
	}
}

func loadWebhooks() WebhookConfig {
	return WebhookConfig{
		AdminURL:     envOrDefault(envWebhookAdmin, ""),
		DecisionsURL: envOrDefault(envWebhookDecisions, ""),
		IncidentsURL: envOrDefault(envWebhookIncidents, ""),
		DMRelayURL:   envOrDefault(envWebhookDM, ""),
		Timeout:      durationEnvOrDefault(envWebhookTimeout, defaultWebhookTimeout),
	}
}
