package constants

// Common string constants used throughout the codebase
const (
	// Environments
	ProdEnvironment = "production"

	// Environment variable names
	EnvStage           = "STAGE"
	EnvAPIPort         = "API_PORT"
	EnvUpstreamBaseURL = "UPSTREAM_API_BASE_URL"
	EnvUpstreamToken   = "UPSTREAM_API_TOKEN"
	EnvRedisURL        = "REDIS_URL"
	EnvCacheTTLHours   = "CHART_CACHE_TTL_HOURS"
)
