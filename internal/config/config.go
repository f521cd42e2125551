package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/liao/chat-miner/internal/parser"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Parser ParserConfig `mapstructure:"parser"`
	Index  IndexConfig  `mapstructure:"index"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type ParserConfig struct {
	Workers     int      `mapstructure:"workers" validate:"min=1,max=256"`
	Timezone    string   `mapstructure:"timezone" validate:"required"`
	ChatName    string   `mapstructure:"chat_name"`
	SkipMarkers []string `mapstructure:"skip_markers"`
}

type IndexConfig struct {
	VectorsDir    string  `mapstructure:"vectors_dir" validate:"required"`
	Collection    string  `mapstructure:"collection" validate:"required"`
	GapMinutes    int     `mapstructure:"gap_minutes" validate:"gt=0"`
	MinMessages   int     `mapstructure:"min_messages" validate:"min=1"`
	TopK          int     `mapstructure:"top_k" validate:"min=1"`
	MinSimilarity float32 `mapstructure:"min_similarity" validate:"gte=-1,lte=1"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model" validate:"required"`
	RPMLimit       int    `mapstructure:"rpm_limit" validate:"min=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("parser.workers", 4)
	v.SetDefault("parser.timezone", "Local")
	v.SetDefault("parser.chat_name", "")
	v.SetDefault("parser.skip_markers", parser.DefaultSkipMarkers)

	v.SetDefault("index.vectors_dir", "./data/vectors")
	v.SetDefault("index.collection", "conversations")
	v.SetDefault("index.gap_minutes", 30)
	v.SetDefault("index.min_messages", 2)
	v.SetDefault("index.top_k", 5)
	v.SetDefault("index.min_similarity", 0.3)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.embedding_model", "gemini-embedding-001")
	v.SetDefault("gemini.rpm_limit", 60)
}

// Load 依次应用默认值、配置文件（可选）与 CHATMINER_* 环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("chatminer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 环境变量覆盖
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && v.GetString("gemini.api_key") == "" {
		v.Set("gemini.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验字段取值
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Parser.Location(); err != nil {
		return fmt.Errorf("invalid config: parser.timezone: %w", err)
	}
	return nil
}

// Location 解析 parser.timezone
func (p ParserConfig) Location() (*time.Location, error) {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(p.Timezone)
}

// Options 转换为解析选项
func (p ParserConfig) Options() (parser.Options, error) {
	loc, err := p.Location()
	if err != nil {
		return parser.Options{}, fmt.Errorf("load timezone: %w", err)
	}
	return parser.Options{
		Workers:     p.Workers,
		Location:    loc,
		ChatName:    p.ChatName,
		SkipMarkers: p.SkipMarkers,
	}, nil
}

// Gap 对话切分间隔
func (i IndexConfig) Gap() time.Duration {
	return time.Duration(i.GapMinutes) * time.Minute
}

// SlogLevel 转换日志级别
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
