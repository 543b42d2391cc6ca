package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/timmy/foodlens/internal/prompts"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Additives AdditivesConfig `mapstructure:"additives"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port        int           `mapstructure:"port"`
	Mode        string        `mapstructure:"mode"`
	CORS        CORSConfig    `mapstructure:"cors"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxUploadMB int64         `mapstructure:"max_upload_mb"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// OCRConfig selects the text recognizer. Provider is "tesseract" or "vlm".
type OCRConfig struct {
	Provider        string    `mapstructure:"provider"`
	Languages       []string  `mapstructure:"languages"`
	TessdataPrefix  string    `mapstructure:"tessdata_prefix"`
	AcceptedFormats []string  `mapstructure:"accepted_formats"`
	VLM             VLMConfig `mapstructure:"vlm"`
}

type VLMConfig struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LLMConfig holds the chat-completion endpoint credentials and the model domain tag.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AppID       string        `mapstructure:"app_id"`
	APIKey      string        `mapstructure:"api_key"`
	APISecret   string        `mapstructure:"api_secret"`
	Domain      string        `mapstructure:"domain"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type AdditivesConfig struct {
	Keywords         []string `mapstructure:"keywords"`
	DefaultSelection int      `mapstructure:"default_selection"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

const (
	OCRProviderTesseract = "tesseract"
	OCRProviderVLM       = "vlm"
)

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("llm.app_id", "SPARK_APP_ID")
	v.BindEnv("llm.api_key", "SPARK_API_KEY")
	v.BindEnv("llm.api_secret", "SPARK_API_SECRET")
	v.BindEnv("llm.base_url", "SPARK_BASE_URL")
	v.BindEnv("llm.domain", "SPARK_DOMAIN")
	v.BindEnv("ocr.provider", "OCR_PROVIDER")
	v.BindEnv("ocr.tessdata_prefix", "TESSDATA_PREFIX")
	v.BindEnv("ocr.vlm.api_key", "OPENAI_API_KEY")
	v.BindEnv("ocr.vlm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("ocr.vlm.model", "VLM_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("ocr.provider", OCRProviderTesseract)
	v.SetDefault("ocr.languages", []string{"chi_sim", "eng"})
	v.SetDefault("ocr.accepted_formats", []string{"png", "jpg", "jpeg"})
	v.SetDefault("ocr.vlm.model", "gpt-4o-mini")
	v.SetDefault("ocr.vlm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.base_url", "https://spark-api-open.xf-yun.com/v1")
	v.SetDefault("llm.domain", "generalv3.5")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("additives.keywords", prompts.AdditiveKeywords)
	v.SetDefault("additives.default_selection", 3)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate reports the first setting the pipeline cannot start with.
func (c *Config) Validate() error {
	if err := c.ValidateRecognition(); err != nil {
		return err
	}
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url is required")
	}
	return nil
}

// ValidateRecognition checks only what OCR and phrase segmentation need,
// so recognition can run without model credentials.
func (c *Config) ValidateRecognition() error {
	switch c.OCR.Provider {
	case OCRProviderTesseract:
	case OCRProviderVLM:
		if c.OCR.VLM.APIKey == "" {
			return errors.New("ocr.vlm.api_key is required for the vlm provider")
		}
	default:
		return fmt.Errorf("unknown ocr.provider %q", c.OCR.Provider)
	}

	nonBlank := 0
	for _, kw := range c.Additives.Keywords {
		if strings.TrimSpace(kw) != "" {
			nonBlank++
		}
	}
	if nonBlank == 0 {
		return errors.New("additives.keywords must not be empty")
	}
	if c.Additives.DefaultSelection < 0 {
		return errors.New("additives.default_selection must not be negative")
	}
	return nil
}

// MaxUploadBytes converts server.max_upload_mb to bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
