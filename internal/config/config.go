package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
	"github.com/joho/godotenv"
)

const (
	DefaultDownloadTimeout = 10 * time.Minute
	DefaultFileTTL         = 24 * time.Hour
	DefaultMemoryLimitMB   = 512

	// Telegram bot uploads are capped at 50 MB, keep some headroom.
	DefaultOptimizeThreshold = int64(48 * 1024 * 1024)
	DefaultCompressTarget    = int64(49 * 1024 * 1024)
)

var GlobalConfig *Config

func InitConfig() error {
	var err error
	GlobalConfig, err = NewConfig()
	if err != nil {
		return err
	}

	return nil
}

type Config struct {
	BotToken string
	APIToken string
	ProxyURL string

	DownloadPath string
	LogLevel     string
	Lang         string

	ChannelUsername string
	ChannelID       int64
	ServiceGroupID  int64

	SummaryAPIURL string
	SummaryModel  string
	SpeechLang    string

	DownloadSettings DownloadConfig
	MediaSettings    MediaConfig
	APISettings      APIConfig
}

type DownloadConfig struct {
	MaxConcurrentDownloads      int
	MaxConcurrentConversions    int
	MaxConcurrentOptimizations  int
	MaxConcurrentTranscriptions int
	DownloadTimeout             time.Duration
	FileTTL                     time.Duration
	CleanupEnabled              bool
	RateLimitPerMinute          int
	MemoryLimitMB               int
}

type MediaConfig struct {
	OptimizeThreshold int64
	CompressTarget    int64
}

type APIConfig struct {
	Enabled bool
	Addr    string
	Key     string
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	config := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),
		APIToken: getEnv("API_TOKEN", ""),
		ProxyURL: getEnv("PROXY_URL", ""),

		DownloadPath: getEnv("DOWNLOAD_PATH", "downloads"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Lang:         getEnv("LANG", "ru"),

		ChannelUsername: getEnv("CHANNEL_USERNAME", "dreamhood"),
		ChannelID:       getEnvInt64("CHANNEL_ID", -1001929791068),
		ServiceGroupID:  getEnvInt64("SERVICE_GROUP_ID", -4990421216),

		SummaryAPIURL: getEnv("SUMMARY_API_URL", "https://api.intelligence.io.solutions/api/v1/chat/completions"),
		SummaryModel:  getEnv("SUMMARY_MODEL", "openai/gpt-oss-120b"),
		SpeechLang:    getEnv("SPEECH_LANG", "ru-RU"),

		DownloadSettings: DownloadConfig{
			MaxConcurrentDownloads:      getEnvInt("MAX_CONCURRENT_DOWNLOADS", 10),
			MaxConcurrentConversions:    getEnvInt("MAX_CONCURRENT_CONVERSIONS", 8),
			MaxConcurrentOptimizations:  getEnvInt("MAX_CONCURRENT_OPTIMIZATIONS", 4),
			MaxConcurrentTranscriptions: getEnvInt("MAX_CONCURRENT_TRANSCRIPTIONS", 8),
			DownloadTimeout:             getEnvDuration("DOWNLOAD_TIMEOUT", DefaultDownloadTimeout),
			FileTTL:                     getEnvDuration("FILE_TTL", DefaultFileTTL),
			CleanupEnabled:              getEnvBool("CLEANUP_ENABLED", true),
			RateLimitPerMinute:          getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
			MemoryLimitMB:               getEnvInt("MEMORY_LIMIT_MB", DefaultMemoryLimitMB),
		},

		MediaSettings: MediaConfig{
			OptimizeThreshold: DefaultOptimizeThreshold,
			CompressTarget:    DefaultCompressTarget,
		},

		APISettings: APIConfig{
			Enabled: getEnvBool("API_ENABLED", true),
			Addr:    getEnv("API_ADDR", ":5030"),
			Key:     getEnv("API_KEY", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, utils.WrapError(err, "configuration validation failed", map[string]any{
			"log_level": config.LogLevel,
		})
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := c.validateRequiredFields(); err != nil {
		return err
	}

	if err := c.validateProxy(); err != nil {
		return err
	}

	if err := c.validateDownloadSettings(); err != nil {
		return err
	}

	if err := c.validateAPISettings(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateRequiredFields() error {
	var missingFields []string

	if c.BotToken == "" {
		missingFields = append(missingFields, "BOT_TOKEN")
	}
	if c.DownloadPath == "" {
		missingFields = append(missingFields, "DOWNLOAD_PATH")
	}

	if len(missingFields) > 0 {
		return utils.WrapError(utils.ErrConfigurationError, "missing required environment variables", map[string]any{
			"missing_fields": missingFields,
		})
	}

	return nil
}

func (c *Config) validateProxy() error {
	if c.ProxyURL == "" {
		return nil
	}

	parsed, err := url.Parse(c.ProxyURL)
	if err != nil {
		return utils.WrapError(utils.ErrConfigurationError, "invalid PROXY_URL", map[string]any{
			"proxy_url": c.ProxyURL,
		})
	}

	switch parsed.Scheme {
	case "http", "https", "socks5":
	default:
		return utils.WrapError(utils.ErrConfigurationError, "unsupported proxy scheme", map[string]any{
			"scheme": parsed.Scheme,
		})
	}

	if parsed.Host == "" {
		return utils.WrapError(utils.ErrConfigurationError, "proxy URL has no host", map[string]any{
			"proxy_url": c.ProxyURL,
		})
	}

	return nil
}

func (c *Config) validateDownloadSettings() error {
	if c.DownloadSettings.MaxConcurrentDownloads <= 0 {
		return utils.WrapError(utils.ErrConfigurationError, "max concurrent downloads must be positive", nil)
	}

	if c.DownloadSettings.MaxConcurrentConversions <= 0 ||
		c.DownloadSettings.MaxConcurrentOptimizations <= 0 ||
		c.DownloadSettings.MaxConcurrentTranscriptions <= 0 {
		return utils.WrapError(utils.ErrConfigurationError, "concurrency limits must be positive", nil)
	}

	if c.DownloadSettings.DownloadTimeout < 0 {
		return utils.WrapError(utils.ErrConfigurationError, "download timeout cannot be negative", nil)
	}

	if c.DownloadSettings.FileTTL <= 0 {
		return utils.WrapError(utils.ErrConfigurationError, "file TTL must be positive", nil)
	}

	if c.DownloadSettings.MemoryLimitMB <= 0 {
		return utils.WrapError(utils.ErrConfigurationError, "memory limit must be positive", nil)
	}

	return nil
}

func (c *Config) validateAPISettings() error {
	if c.APISettings.Enabled && c.APISettings.Addr == "" {
		return utils.WrapError(utils.ErrConfigurationError, "API_ADDR must be set when the API is enabled", nil)
	}

	return nil
}

// ParsedProxyURL returns the configured proxy, or nil when no proxy is set.
// Validation at startup guarantees the URL parses.
func (c *Config) ParsedProxyURL() *url.URL {
	if c.ProxyURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.ProxyURL)
	if err != nil {
		return nil
	}
	return parsed
}

func (c *Config) GetDownloadSettings() DownloadConfig {
	return c.DownloadSettings
}

func (c *Config) GetMediaSettings() MediaConfig {
	return c.MediaSettings
}

func (c *Config) GetAPISettings() APIConfig {
	return c.APISettings
}
