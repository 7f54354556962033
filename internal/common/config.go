package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/joseph-ayodele/health-summary/constants"
)

// ConfigFileEnv names the environment variable pointing at an optional TOML file.
const ConfigFileEnv = "HEALTH_SUMMARY_CONFIG"

// History backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Extractor kinds.
const (
	ExtractorRules  = "rules"
	ExtractorOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `toml:"app"`
	History   HistoryConfig   `toml:"history"`
	Extractor ExtractorConfig `toml:"extractor"`
	LLM       LLMConfig       `toml:"llm"`
	OCR       OCRConfig       `toml:"ocr"`
	Server    ServerConfig    `toml:"server"`
	Batch     BatchConfig     `toml:"batch"`
}

// AppConfig holds pipeline-wide settings
type AppConfig struct {
	AgentVersion string `toml:"agent_version"`
	OutputDir    string `toml:"output_dir"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"` // text | json
}

// HistoryConfig selects and configures the run-history store
type HistoryConfig struct {
	Backend       string   `toml:"backend"`
	SQLitePath    string   `toml:"sqlite_path"`
	PostgresDSN   string   `toml:"postgres_dsn"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	DialTimeout   Duration `toml:"dial_timeout"`
}

// ExtractorConfig selects the stage-1 implementation
type ExtractorConfig struct {
	Kind string `toml:"kind"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Temperature float32  `toml:"temperature"`
	Timeout     Duration `toml:"timeout"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract     string `toml:"tesseract"`
	TesseractLang string `toml:"lang"`
	TessdataDir   string `toml:"tessdata_dir"`
	Pdftotext     string `toml:"pdftotext"`
	Pdftoppm      string `toml:"pdftoppm"`
	DPI           int    `toml:"dpi"`
	MaxPages      int    `toml:"max_pages"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string   `toml:"grpc_addr"`
	HTTPAddr       string   `toml:"http_addr"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// BatchConfig sizes the batch worker queue
type BatchConfig struct {
	Workers        int      `toml:"workers"`
	QueueSize      int      `toml:"queue_size"`
	ProcessTimeout Duration `toml:"process_timeout"`
}

// Duration decodes TOML strings such as "45s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			AgentVersion: constants.DefaultAgentVersion,
			OutputDir:    ".",
			LogLevel:     "info",
			LogFormat:    "text",
		},
		History: HistoryConfig{
			Backend:       BackendMemory,
			SQLitePath:    "./health-summary.db",
			MongoDatabase: "health_summary",
			DialTimeout:   Duration{3 * time.Second},
		},
		Extractor: ExtractorConfig{Kind: ExtractorRules},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			BaseURL:     "https://api.openai.com/v1",
			Temperature: 0.0,
			Timeout:     Duration{45 * time.Second},
		},
		OCR: OCRConfig{
			Tesseract:     "tesseract",
			TesseractLang: "eng",
			Pdftotext:     "pdftotext",
			Pdftoppm:      "pdftoppm",
			DPI:           300,
		},
		Server: ServerConfig{
			GRPCAddr:       ":8080",
			HTTPAddr:       ":8081",
			RequestTimeout: Duration{30 * time.Second},
		},
		Batch: BatchConfig{
			Workers:        4,
			QueueSize:      256,
			ProcessTimeout: Duration{3 * time.Minute},
		},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// Load reads defaults, then the TOML file at path (or $HEALTH_SUMMARY_CONFIG
// when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := toml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("decode %s", path), err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.AgentVersion = getEnv("AGENT_VERSION", c.App.AgentVersion)
	c.App.OutputDir = getEnv("OUTPUT_DIR", c.App.OutputDir)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.LogFormat = getEnv("LOG_FORMAT", c.App.LogFormat)

	c.History.Backend = getEnv("HISTORY_BACKEND", c.History.Backend)
	c.History.SQLitePath = getEnv("SQLITE_PATH", c.History.SQLitePath)
	c.History.PostgresDSN = getEnv("DB_URL", c.History.PostgresDSN)
	c.History.MongoURI = getEnv("MONGO_URI", c.History.MongoURI)
	c.History.MongoDatabase = getEnv("MONGO_DATABASE", c.History.MongoDatabase)
	c.History.DialTimeout.Duration = getEnvAsDuration("DB_DIAL_TIMEOUT", c.History.DialTimeout.Duration)

	c.Extractor.Kind = getEnv("EXTRACTOR", c.Extractor.Kind)

	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout.Duration = getEnvAsDuration("OPENAI_TIMEOUT", c.LLM.Timeout.Duration)

	c.OCR.Tesseract = getEnv("TESSERACT", c.OCR.Tesseract)
	c.OCR.TesseractLang = getEnv("TESSERACT_LANG", c.OCR.TesseractLang)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)
	c.OCR.Pdftotext = getEnv("PDFTOTEXT", c.OCR.Pdftotext)
	c.OCR.Pdftoppm = getEnv("PDFTOPPM", c.OCR.Pdftoppm)
	c.OCR.DPI = getEnvAsInt("OCR_DPI", c.OCR.DPI)
	c.OCR.MaxPages = getEnvAsInt("OCR_MAX_PAGES", c.OCR.MaxPages)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.HTTPAddr = getEnv("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.RequestTimeout.Duration = getEnvAsDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout.Duration)

	c.Batch.Workers = getEnvAsInt("BATCH_WORKERS", c.Batch.Workers)
	c.Batch.QueueSize = getEnvAsInt("BATCH_QUEUE_SIZE", c.Batch.QueueSize)
	c.Batch.ProcessTimeout.Duration = getEnvAsDuration("BATCH_PROCESS_TIMEOUT", c.Batch.ProcessTimeout.Duration)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.AgentVersion) == "" {
		return NewAppError("CONFIG_ERROR", "AGENT_VERSION is required", ErrInvalidInput)
	}
	switch c.History.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.History.SQLitePath == "" {
			return NewAppError("CONFIG_ERROR", "SQLITE_PATH is required for the sqlite backend", ErrInvalidInput)
		}
	case BackendPostgres:
		if c.History.PostgresDSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres backend", ErrInvalidInput)
		}
	case BackendMongo:
		if c.History.MongoURI == "" {
			return NewAppError("CONFIG_ERROR", "MONGO_URI is required for the mongo backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown HISTORY_BACKEND %q", c.History.Backend), ErrInvalidInput)
	}
	switch c.Extractor.Kind {
	case ExtractorRules:
	case ExtractorOpenAI:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai extractor", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown EXTRACTOR %q", c.Extractor.Kind), ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
