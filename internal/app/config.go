package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	LogFile            string
	LogFileMaxMB       int
	LogFileMaxBackups  int
	LogFileMaxAgeDays  int
	UserAgent          string
	SearchAPIBaseURL   string
	SearchAPIFlavor    string
	SearchAPIRegion    string
	MetadataBaseURL    string
	SearchHTMLEndpoint string
	EmbedProbeEndpoint string
	RequestTimeout     time.Duration
	DefaultTimeout     time.Duration
	DefaultMax         int
	PoolSize           int
	ExpandedPoolCap    int
	EnrichLimit        int
	EnrichConcurrency  int
	ProbeConcurrency   int
	OutboundRPS        float64
	OutboundBurst      int
	HTTPRateLimitRPS   float64
	HTTPRateLimitBurst int
	OTLPEndpoint       string
}

func LoadConfig() Config {
	searchAPIBase := getEnv("SEARCH_API_BASE_URL", "https://inv.nadeko.net")
	return Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8095"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:            getEnv("LOG_FILE", ""),
		LogFileMaxMB:       getEnvInt("LOG_FILE_MAX_MB", 50),
		LogFileMaxBackups:  getEnvInt("LOG_FILE_MAX_BACKUPS", 3),
		LogFileMaxAgeDays:  getEnvInt("LOG_FILE_MAX_AGE_DAYS", 14),
		UserAgent:          getEnv("VIDEOSEARCH_USER_AGENT", "artisthub-videosearch/1.0"),
		SearchAPIBaseURL:   searchAPIBase,
		SearchAPIFlavor:    strings.ToLower(getEnv("SEARCH_API_FLAVOR", "invidious")),
		SearchAPIRegion:    strings.ToUpper(getEnv("SEARCH_API_REGION", "RU")),
		MetadataBaseURL:    getEnv("METADATA_BASE_URL", searchAPIBase),
		SearchHTMLEndpoint: getEnv("SEARCH_HTML_ENDPOINT", "https://www.youtube.com/results"),
		EmbedProbeEndpoint: getEnv("EMBED_PROBE_ENDPOINT", "https://www.youtube.com/oembed"),
		RequestTimeout:     time.Duration(getEnvInt("SEARCH_REQUEST_TIMEOUT_MS", 6000)) * time.Millisecond,
		DefaultTimeout:     time.Duration(getEnvInt("SEARCH_DEFAULT_TIMEOUT_MS", 12000)) * time.Millisecond,
		DefaultMax:         getEnvInt("SEARCH_DEFAULT_MAX", 10),
		PoolSize:           getEnvInt("SEARCH_POOL_SIZE", 40),
		ExpandedPoolCap:    getEnvInt("SEARCH_EXPANDED_POOL_CAP", 80),
		EnrichLimit:        getEnvInt("ENRICH_LIMIT", 24),
		EnrichConcurrency:  getEnvInt("ENRICH_CONCURRENCY", 4),
		ProbeConcurrency:   getEnvInt("PROBE_CONCURRENCY", 8),
		OutboundRPS:        getEnvFloat("OUTBOUND_RPS", 20),
		OutboundBurst:      getEnvInt("OUTBOUND_BURST", 10),
		HTTPRateLimitRPS:   getEnvFloat("HTTP_RATE_LIMIT_RPS", 10),
		HTTPRateLimitBurst: getEnvInt("HTTP_RATE_LIMIT_BURST", 20),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
