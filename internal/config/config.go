package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultCacheDir       = ".cache"
	defaultCacheFile      = "call4papers.db"
	defaultHTTPTimeoutSec = 30
	defaultWorkerCount    = 4
	defaultJobTimeoutSec  = 60
	defaultLookupsPerSec  = 2.0
	maxWorkerCount        = 16
)

// Config holds all environment-driven settings. Filtering criteria are not
// part of it; they arrive per run through CLI flags and setups.
type Config struct {
	CacheDir         string
	CachePath        string
	CacheDatabaseURL string
	CacheMaxAge      time.Duration
	HTTPTimeout      time.Duration
	JobTimeout       time.Duration
	WorkerCount      int
	LookupsPerSec    float64
	CoreBaseURL      string
	GGSURL           string
	WikiCFPBaseURL   string
	SetupsPath       string
}

// Load reads configuration from the environment and an optional .env file
// and applies sane defaults.
func Load() Config {
	_ = godotenv.Load()

	cacheDir := getenv("CACHE_DIR", defaultCacheDir)
	cfg := Config{
		CacheDir:         cacheDir,
		CachePath:        getenv("CACHE_PATH", cacheDir+"/"+defaultCacheFile),
		CacheDatabaseURL: os.Getenv("CACHE_DATABASE_URL"),
		CacheMaxAge:      time.Duration(getenvInt("CACHE_MAX_AGE_HOURS", 0)) * time.Hour,
		HTTPTimeout:      time.Duration(clampInt(getenvInt("HTTP_TIMEOUT_SEC", defaultHTTPTimeoutSec), 1, 300)) * time.Second,
		JobTimeout:       time.Duration(clampInt(getenvInt("JOB_TIMEOUT_SEC", defaultJobTimeoutSec), 1, 600)) * time.Second,
		WorkerCount:      clampInt(getenvInt("WORKER_COUNT", defaultWorkerCount), 1, maxWorkerCount),
		LookupsPerSec:    getenvFloat("LOOKUPS_PER_SEC", defaultLookupsPerSec),
		CoreBaseURL:      getenv("CORE_BASE_URL", "http://portal.core.edu.au"),
		GGSURL:           getenv("GGS_URL", "https://scie.lcc.uma.es/gii-grin-scie-rating/ratingSearch.jsf?format=csv"),
		WikiCFPBaseURL:   getenv("WIKICFP_BASE_URL", "http://www.wikicfp.com"),
		SetupsPath:       getenv("SETUPS_PATH", ""),
	}

	log.Printf("config: cache=%s workers=%d lookup_rate=%.1f/s", cfg.CachePath, cfg.WorkerCount, cfg.LookupsPerSec)
	return cfg
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
