package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Images    ImagesConfig    `mapstructure:"images"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // json 或 text
	Output     string `mapstructure:"output"`      // stdout 或 file
	Dir        string `mapstructure:"dir"`         // 文件输出目录
	MaxSize    int    `mapstructure:"max_size"`    // 兆字节
	MaxBackups int    `mapstructure:"max_backups"` // 备份数量
	MaxAge     int    `mapstructure:"max_age"`     // 天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧文件
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SchedulerConfig 后台补全调度配置，除 Enabled 与 Cron 外均支持热更新
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Cron                string `mapstructure:"cron"`
	BatchSize           int    `mapstructure:"batch_size"`
	RequestsPerMinute   int    `mapstructure:"requests_per_minute"`
	MaxRuntimeMinutes   int    `mapstructure:"max_runtime_minutes"`
	ErrorBackoffSeconds int    `mapstructure:"error_backoff_seconds"`
}

type ImagesConfig struct {
	Dir            string `mapstructure:"dir"`
	MaxWidth       int    `mapstructure:"max_width"`    // 0 表示不缩放
	JPEGQuality    int    `mapstructure:"jpeg_quality"` // 1-100
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

type ProvidersConfig struct {
	UPCItemDB   UPCItemDBConfig   `mapstructure:"upcitemdb"`
	OpenLibrary OpenLibraryConfig `mapstructure:"openlibrary"`
	TMDB        TMDBConfig        `mapstructure:"tmdb"`
	GiantBomb   GiantBombConfig   `mapstructure:"giantbomb"`
	MusicBrainz MusicBrainzConfig `mapstructure:"musicbrainz"`
}

type UPCItemDBConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`  // 为空时使用 trial 接口
	KeyType        string `mapstructure:"key_type"` // 3scale 等
	CacheMinutes   int    `mapstructure:"cache_minutes"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type OpenLibraryConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CoversURL      string `mapstructure:"covers_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TMDBConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	ImageBaseURL   string `mapstructure:"image_base_url"`
	Language       string `mapstructure:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type GiantBombConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

type MusicBrainzConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CoverArtURL    string `mapstructure:"cover_art_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CronParser 调度表达式解析器，支持可选秒字段与 @daily 等描述符
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Load 读取并校验配置，未找到配置文件时使用默认值
func Load() (*Config, error) {
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	}

	return decode()
}

// decode 从当前 viper 状态解码配置
func decode() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解码配置: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置
func setDefaults() {
	// 日志默认配置
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.dir", "data/logs")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)

	viper.SetDefault("database.path", "data/mediashelf.db")

	// 调度默认配置：每天凌晨 2 点
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.cron", "0 2 * * *")
	viper.SetDefault("scheduler.batch_size", 100)
	viper.SetDefault("scheduler.requests_per_minute", 30)
	viper.SetDefault("scheduler.max_runtime_minutes", 60)
	viper.SetDefault("scheduler.error_backoff_seconds", 60)

	viper.SetDefault("images.dir", "data/covers")
	viper.SetDefault("images.max_width", 600)
	viper.SetDefault("images.jpeg_quality", 85)
	viper.SetDefault("images.timeout_seconds", 30)
	viper.SetDefault("images.user_agent", "mediashelf/1.0")

	viper.SetDefault("providers.upcitemdb.base_url", "https://api.upcitemdb.com/prod")
	viper.SetDefault("providers.upcitemdb.key_type", "3scale")
	viper.SetDefault("providers.upcitemdb.cache_minutes", 60)
	viper.SetDefault("providers.upcitemdb.timeout_seconds", 15)

	viper.SetDefault("providers.openlibrary.base_url", "https://openlibrary.org")
	viper.SetDefault("providers.openlibrary.covers_url", "https://covers.openlibrary.org")
	viper.SetDefault("providers.openlibrary.timeout_seconds", 15)

	viper.SetDefault("providers.tmdb.base_url", "https://api.themoviedb.org/3")
	viper.SetDefault("providers.tmdb.image_base_url", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("providers.tmdb.language", "en-US")
	viper.SetDefault("providers.tmdb.timeout_seconds", 15)

	viper.SetDefault("providers.giantbomb.base_url", "https://www.giantbomb.com/api")
	viper.SetDefault("providers.giantbomb.requests_per_hour", 200)
	viper.SetDefault("providers.giantbomb.timeout_seconds", 15)

	viper.SetDefault("providers.musicbrainz.base_url", "https://musicbrainz.org/ws/2")
	viper.SetDefault("providers.musicbrainz.cover_art_url", "https://coverartarchive.org")
	viper.SetDefault("providers.musicbrainz.user_agent", "mediashelf/1.0 ( https://github.com/mediashelf )")
	viper.SetDefault("providers.musicbrainz.timeout_seconds", 15)
}

// validateConfig 验证配置的有效性
func validateConfig(config *Config) error {
	s := config.Scheduler
	if strings.TrimSpace(s.Cron) == "" {
		return fmt.Errorf("调度表达式未设置")
	}
	if _, err := CronParser.Parse(s.Cron); err != nil {
		return fmt.Errorf("调度表达式无效 %q: %w", s.Cron, err)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size 必须大于 0")
	}
	if s.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute 必须大于 0")
	}
	if s.MaxRuntimeMinutes <= 0 {
		return fmt.Errorf("max_runtime_minutes 必须大于 0")
	}
	if s.ErrorBackoffSeconds < 0 {
		return fmt.Errorf("error_backoff_seconds 不能为负数")
	}
	if config.Images.JPEGQuality < 1 || config.Images.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality 必须在 1-100 之间")
	}
	if config.Database.Path == "" {
		return fmt.Errorf("数据库路径未设置")
	}
	return nil
}
