package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes read access to the application configuration.
// Components depend on this interface rather than on *Config so tests can stub it.
type Provider interface {
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration
	GetSessionSecret() string
	GetAppBaseURL() string
	GetServerAddr() string
	GetLoginPath() string
	GetAnalysisURL() string
	GetAnalysisKey() string
	GetAnalysisJWTSecret() string
	GetAnalysisPersistSession() bool
	GetAnalysisAutoRefreshToken() bool
	GetAnalysisDetectSessionInURL() bool
}

// Config holds all configuration for the application.
type Config struct {
	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	DBQueryTimeout   time.Duration
	DBExecuteTimeout time.Duration

	SessionSecret string
	AppBaseURL    string
	ServerAddr    string
	LoginPath     string

	AnalysisURL                string
	AnalysisKey                string
	AnalysisJWTSecret          string
	AnalysisPersistSession     bool
	AnalysisAutoRefreshToken   bool
	AnalysisDetectSessionInURL bool
}

// Load reads configuration from the environment, loading a .env file first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		DBUrl:            os.Getenv("SURREAL_URL"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		DBQueryTimeout:   durationEnv("DB_QUERY_TIMEOUT", 5*time.Second),
		DBExecuteTimeout: durationEnv("DB_EXECUTE_TIMEOUT", 10*time.Second),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		AppBaseURL:    stringEnv("APP_BASE_URL", "http://localhost:8080"),
		ServerAddr:    stringEnv("SERVER_ADDR", ":8080"),
		LoginPath:     stringEnv("LOGIN_PATH", "/auth/login"),

		AnalysisURL:                stringEnv("ANALYSIS_DB_URL", os.Getenv("SURREAL_URL")),
		AnalysisKey:                os.Getenv("ANALYSIS_DB_KEY"),
		AnalysisJWTSecret:          os.Getenv("ANALYSIS_JWT_SECRET"),
		AnalysisPersistSession:     boolEnv("ANALYSIS_PERSIST_SESSION", false),
		AnalysisAutoRefreshToken:   boolEnv("ANALYSIS_AUTO_REFRESH_TOKEN", false),
		AnalysisDetectSessionInURL: boolEnv("ANALYSIS_DETECT_SESSION_IN_URL", false),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		return nil, fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("required environment variable SESSION_SECRET is not set")
	}

	return cfg, nil
}

// New loads configuration from environment variables and exits if it is incomplete.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func (c *Config) GetDBUrl() string                    { return c.DBUrl }
func (c *Config) GetDBNs() string                     { return c.DBNs }
func (c *Config) GetDBDb() string                     { return c.DBDb }
func (c *Config) GetDBUser() string                   { return c.DBUser }
func (c *Config) GetDBPass() string                   { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration    { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration  { return c.DBExecuteTimeout }
func (c *Config) GetSessionSecret() string            { return c.SessionSecret }
func (c *Config) GetAppBaseURL() string               { return c.AppBaseURL }
func (c *Config) GetServerAddr() string               { return c.ServerAddr }
func (c *Config) GetLoginPath() string                { return c.LoginPath }
func (c *Config) GetAnalysisURL() string              { return c.AnalysisURL }
func (c *Config) GetAnalysisKey() string              { return c.AnalysisKey }
func (c *Config) GetAnalysisJWTSecret() string        { return c.AnalysisJWTSecret }
func (c *Config) GetAnalysisPersistSession() bool     { return c.AnalysisPersistSession }
func (c *Config) GetAnalysisAutoRefreshToken() bool   { return c.AnalysisAutoRefreshToken }
func (c *Config) GetAnalysisDetectSessionInURL() bool { return c.AnalysisDetectSessionInURL }
