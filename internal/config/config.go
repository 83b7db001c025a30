package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // 没有系统时区库时也能加载 Asia/Kolkata 等时区

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var (
	ErrMissingCredentials = errors.New("missing API key")
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrInvalid            = errors.New("invalid config")
)

// 输出格式
var formats = []string{"text", "json", "yaml", "ics"}

type Config struct {
	Provider string        `mapstructure:"provider"`
	Gemini   ModelConfig   `mapstructure:"gemini"`
	OpenAI   ModelConfig   `mapstructure:"openai"`
	Extract  ExtractConfig `mapstructure:"extract"`
	Filter   FilterConfig  `mapstructure:"filter"`
	Output   OutputConfig  `mapstructure:"output"`
	LogLevel string        `mapstructure:"log_level"`

	location *time.Location
}

type ModelConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	BaseURL         string  `mapstructure:"base_url"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens"`
}

type ExtractConfig struct {
	Timezone         string        `mapstructure:"timezone"`
	Workers          int           `mapstructure:"workers"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	SkipPlaceholders bool          `mapstructure:"skip_placeholders"`
}

type FilterConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// 命令行 flag 到配置 key 的映射
var flagKeys = map[string]string{
	"provider":          "provider",
	"timezone":          "extract.timezone",
	"workers":           "extract.workers",
	"timeout":           "extract.request_timeout",
	"skip-placeholders": "extract.skip_placeholders",
	"min-confidence":    "filter.min_confidence",
	"format":            "output.format",
	"log-level":         "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	for _, p := range []string{ProviderGemini, ProviderOpenAI} {
		v.SetDefault(p+".api_key", "")
		v.SetDefault(p+".base_url", "")
		v.SetDefault(p+".temperature", 0)
		v.SetDefault(p+".max_output_tokens", 0)
	}
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("extract.timezone", "Asia/Kolkata")
	v.SetDefault("extract.workers", 1)
	v.SetDefault("extract.request_timeout", "60s")
	v.SetDefault("extract.skip_placeholders", false)
	v.SetDefault("filter.min_confidence", 0.7)
	v.SetDefault("output.format", "text")
	v.SetDefault("log_level", "info")
}

// Load 读取配置：默认值 < 配置文件 < CHATCAL_* 环境变量 < 命令行 flag
// path 为空时尝试当前目录下的 chatcal.yaml，不存在也不报错
// 不校验 API key，需要调用方根据命令决定是否 RequireCredentials
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// 本地开发用的 .env，不存在就忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CHATCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("chatcal")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// 环境变量覆盖
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		v.Set("gemini.api_key", key)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		v.Set("openai.api_key", key)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		// --model 作用于当前选中的 provider
		if f := flags.Lookup("model"); f != nil && f.Changed {
			v.Set(v.GetString("provider")+".model", f.Value.String())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider != ProviderGemini && c.Provider != ProviderOpenAI {
		return fmt.Errorf("%w: %q (want gemini or openai)", ErrUnknownProvider, c.Provider)
	}

	loc, err := time.LoadLocation(c.Extract.Timezone)
	if err != nil {
		return fmt.Errorf("%w: extract.timezone: %w", ErrInvalid, err)
	}
	c.location = loc

	if c.Extract.Workers < 1 {
		return fmt.Errorf("%w: extract.workers must be >= 1, got %d", ErrInvalid, c.Extract.Workers)
	}
	if c.Extract.RequestTimeout <= 0 {
		return fmt.Errorf("%w: extract.request_timeout must be positive", ErrInvalid)
	}
	if c.Filter.MinConfidence < 0 || c.Filter.MinConfidence > 1 {
		return fmt.Errorf("%w: filter.min_confidence must be within [0,1], got %v", ErrInvalid, c.Filter.MinConfidence)
	}

	c.Output.Format = strings.ToLower(c.Output.Format)
	if !validFormat(c.Output.Format) {
		return fmt.Errorf("%w: output.format %q (want one of %s)", ErrInvalid, c.Output.Format, strings.Join(formats, ", "))
	}
	return nil
}

// RequireCredentials 检查当前 provider 的 API key
func (c *Config) RequireCredentials() error {
	if c.Model().APIKey != "" {
		return nil
	}
	env := "GEMINI_API_KEY"
	if c.Provider == ProviderOpenAI {
		env = "OPENAI_API_KEY"
	}
	return fmt.Errorf("%w: %s.api_key is required (set in config, .env or %s env)", ErrMissingCredentials, c.Provider, env)
}

// Model 返回当前 provider 的模型配置
func (c *Config) Model() ModelConfig {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI
	}
	return c.Gemini
}

// Location 返回 extract.timezone 对应的时区
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func validFormat(f string) bool {
	for _, v := range formats {
		if f == v {
			return true
		}
	}
	return false
}
