package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Voice  VoiceConfig  `mapstructure:"voice"`
	Audio  AudioConfig  `mapstructure:"audio"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	BasePath     string `mapstructure:"base_path"`
}

// GeminiConfig holds the script-generation collaborator settings.
type GeminiConfig struct {
	ApiKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// VoiceConfig holds the speech-synthesis collaborator settings. The
// voice identity and delivery parameters are static per deployment;
// they are not tunable per request.
type VoiceConfig struct {
	ApiKey          string  `mapstructure:"api_key"`
	VoiceID         string  `mapstructure:"voice_id"`
	ModelID         string  `mapstructure:"model_id"`
	Stability       float64 `mapstructure:"stability"`
	SimilarityBoost float64 `mapstructure:"similarity_boost"`
	Style           float64 `mapstructure:"style"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
}

// AudioConfig holds the mixing settings. TrackDir is the asset
// directory holding the background music beds.
type AudioConfig struct {
	FFmpegPath        string `mapstructure:"ffmpeg_path"`
	TrackDir          string `mapstructure:"track_dir"`
	MixTimeoutSeconds int    `mapstructure:"mix_timeout_seconds"`
}

// CacheConfig holds the script-generation response cache settings.
type CacheConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	ExpirationMinutes      int  `mapstructure:"expiration_minutes"`
	CleanupIntervalMinutes int  `mapstructure:"cleanup_interval_minutes"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	config Config
	once   sync.Once
)

// Load reads the configuration file at the given path, then applies
// environment-variable overrides on top.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if configPath != "" {
			v.SetConfigFile(configPath)
			if err = v.ReadInConfig(); err != nil {
				err = fmt.Errorf("failed to read config file: %w", err)
				return
			}
		}

		if err = v.Unmarshal(&config); err != nil {
			err = fmt.Errorf("failed to parse config: %w", err)
			return
		}

		// Environment variables win over the file.
		loadFromEnvironment(&config)
	})

	if err != nil {
		return nil, err
	}

	return &config, nil
}

// loadFromEnvironment applies environment overrides on top of the file.
// API keys use the upstream providers' conventional variable names; the
// rest are prefixed SELAH_.
func loadFromEnvironment(cfg *Config) {
	if port := os.Getenv("SELAH_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("SELAH_SERVER_READ_TIMEOUT"); readTimeout != "" {
		if t, err := strconv.Atoi(readTimeout); err == nil {
			cfg.Server.ReadTimeout = t
		}
	}
	if writeTimeout := os.Getenv("SELAH_SERVER_WRITE_TIMEOUT"); writeTimeout != "" {
		if t, err := strconv.Atoi(writeTimeout); err == nil {
			cfg.Server.WriteTimeout = t
		}
	}
	if basePath := os.Getenv("SELAH_SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.Gemini.ApiKey = apiKey
	}
	if model := os.Getenv("SELAH_GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if timeout := os.Getenv("SELAH_GEMINI_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.Gemini.TimeoutSeconds = t
		}
	}

	if apiKey := os.Getenv("ELEVENLABS_API_KEY"); apiKey != "" {
		cfg.Voice.ApiKey = apiKey
	}
	if voiceID := os.Getenv("SELAH_VOICE_ID"); voiceID != "" {
		cfg.Voice.VoiceID = voiceID
	}
	if modelID := os.Getenv("SELAH_VOICE_MODEL_ID"); modelID != "" {
		cfg.Voice.ModelID = modelID
	}
	if stability := os.Getenv("SELAH_VOICE_STABILITY"); stability != "" {
		if f, err := strconv.ParseFloat(stability, 64); err == nil {
			cfg.Voice.Stability = f
		}
	}
	if similarity := os.Getenv("SELAH_VOICE_SIMILARITY_BOOST"); similarity != "" {
		if f, err := strconv.ParseFloat(similarity, 64); err == nil {
			cfg.Voice.SimilarityBoost = f
		}
	}
	if style := os.Getenv("SELAH_VOICE_STYLE"); style != "" {
		if f, err := strconv.ParseFloat(style, 64); err == nil {
			cfg.Voice.Style = f
		}
	}
	if timeout := os.Getenv("SELAH_VOICE_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.Voice.TimeoutSeconds = t
		}
	}

	if ffmpegPath := os.Getenv("SELAH_FFMPEG_PATH"); ffmpegPath != "" {
		cfg.Audio.FFmpegPath = ffmpegPath
	}
	if trackDir := os.Getenv("SELAH_TRACK_DIR"); trackDir != "" {
		cfg.Audio.TrackDir = trackDir
	}
	if timeout := os.Getenv("SELAH_MIX_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.Audio.MixTimeoutSeconds = t
		}
	}

	if cacheEnabled := os.Getenv("SELAH_CACHE_ENABLED"); cacheEnabled != "" {
		cfg.Cache.Enabled = strings.ToLower(cacheEnabled) == "true"
	}
	if cacheExpiration := os.Getenv("SELAH_CACHE_EXPIRATION_MINUTES"); cacheExpiration != "" {
		if e, err := strconv.Atoi(cacheExpiration); err == nil {
			cfg.Cache.ExpirationMinutes = e
		}
	}
	if cacheCleanup := os.Getenv("SELAH_CACHE_CLEANUP_INTERVAL_MINUTES"); cacheCleanup != "" {
		if c, err := strconv.Atoi(cacheCleanup); err == nil {
			cfg.Cache.CleanupIntervalMinutes = c
		}
	}

	if logLevel := os.Getenv("SELAH_LOG_LEVEL"); logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat := os.Getenv("SELAH_LOG_FORMAT"); logFormat != "" {
		cfg.Log.Format = logFormat
	}
}

// Get returns the loaded configuration.
func Get() *Config {
	return &config
}
