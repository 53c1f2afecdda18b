package config

import "time"

const (
	envPort        = "PORT"
	envMetricsPort = "METRICS_PORT"
	envMetricsOn   = "METRICS_ENABLED"
	envOtelEnd     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService = "OTEL_SERVICE_NAME"
	envOtelInsec   = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken  = "ADMIN_TOKEN"
	envLogLevel    = "LOG_LEVEL"
	envLogFormat   = "LOG_FORMAT"

	envStoreBackend = "STORE_BACKEND"
	envStorePath    = "STORE_PATH"
	envDatabaseURL  = "DATABASE_URL"
	envDBMaxConns   = "DB_MAX_CONNS"

	envPenaltyLimit    = "PENALTY_POINTS_LIMIT"
	envPenaltyAutoBan  = "PENALTY_AUTO_BAN"
	envInactivity      = "INACTIVITY_THRESHOLD"
	envMaxGridSize     = "MAX_MAIN_GRID_SIZE"
	envTeamCapacity    = "TEAM_CAPACITY"
	envPointsTable     = "POINTS_TABLE"
	envFastestLapBonus = "FASTEST_LAP_BONUS"
	envFastestLapMax   = "FASTEST_LAP_MAX_POSITION"
	envRetention       = "DECISION_RETENTION"

	envReminderEnabled   = "REMINDER_ENABLED"
	envReminderInterval  = "REMINDER_INTERVAL"
	envReminderLookahead = "REMINDER_LOOKAHEAD"

	envCORSOrigins      = "CORS_ALLOW_ORIGINS"
	envRateLimitOn      = "RATE_LIMIT_ENABLED"
	envRateLimitReqs    = "RATE_LIMIT_REQUESTS"
	envRateLimitWindow  = "RATE_LIMIT_WINDOW"
	envTrustProxy       = "TRUST_PROXY"
	envWebhookAdmin     = "WEBHOOK_ADMIN_URL"
	envWebhookDecisions = "WEBHOOK_DECISIONS_URL"
	envWebhookIncidents = "WEBHOOK_INCIDENTS_URL"
	envWebhookDM        = "WEBHOOK_DM_RELAY_URL"
	envWebhookTimeout   = "WEBHOOK_TIMEOUT"

	envMarkerDriver         = "MARKER_DRIVER"
	envMarkerSteward        = "MARKER_STEWARD"
	envMarkerCommentator    = "MARKER_COMMENTATOR"
	envMarkerDriverApp      = "MARKER_DRIVER_APPLICANT"
	envMarkerStewardApp     = "MARKER_STEWARD_APPLICANT"
	envMarkerCommentatorApp = "MARKER_COMMENTATOR_APPLICANT"
	envMarkerUnderReview    = "MARKER_UNDER_REVIEW"
	envMarkerUnderTesting   = "MARKER_UNDER_TESTING"
	envMarkerNewcomer       = "MARKER_NEWCOMER"
	envMarkerBanned         = "MARKER_BANNED"

	defaultPort         = "4000"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "league-service"
	defaultStoreBackend = StoreFile
	defaultStorePath    = "data/league.json"
	defaultDBMaxConns   = 5

	defaultPenaltyLimit    = 18
	defaultInactivity      = 3
	defaultMaxGridSize     = 20
	defaultTeamCapacity    = 2
	defaultFastestLapBonus = 1
	defaultFastestLapMax   = 10
	defaultRetention       = 24 * time.Hour

	defaultReminderInterval  = time.Hour
	defaultReminderLookahead = 24 * time.Hour

	defaultCORSOrigins     = "http://localhost:3000,http://localhost:5173"
	defaultRateLimitReqs   = 100
	defaultRateLimitWindow = 60 * time.Second
	defaultWebhookTimeout  = 5 * time.Second
)

// defaultPointsTable awards points for finishing positions 1..10.
var defaultPointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
