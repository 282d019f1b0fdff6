// Package config 提供统一的配置管理
//
// 配置来源优先级：命令行参数 > JSON 配置文件 > 默认值。
// 命令行参数用于运行时覆盖/快速测试，JSON 配置文件用于
// 长期运行节点的持久化配置。
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config WebRouter 统一配置
type Config struct {
	// Router 路由器配置
	Router RouterConfig `json:"router"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage"`

	// HTTP HTTP 服务配置
	HTTP HTTPConfig `json:"http"`
}

// RouterConfig 路由器配置
type RouterConfig struct {
	// DefaultEntryPoint 默认入口页
	DefaultEntryPoint string `json:"default_entry_point"`

	// CacheTimeout 内容缓存超时
	CacheTimeout Duration `json:"cache_timeout"`

	// FreshnessWindow 身份记录新鲜度窗口
	FreshnessWindow Duration `json:"freshness_window"`

	// AllowDirectoryListing 是否允许目录列表
	AllowDirectoryListing bool `json:"allow_directory_listing"`

	// PublisherCacheSize 发布器实例缓存容量
	PublisherCacheSize int `json:"publisher_cache_size"`

	// ContentDir 发布内容根目录（每个身份一个子目录）
	ContentDir string `json:"content_dir"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	// DataDir 数据目录
	DataDir string `json:"data_dir"`

	// SyncWrites 是否同步写入磁盘
	SyncWrites bool `json:"sync_writes"`

	// GCInterval 存储垃圾回收间隔
	GCInterval Duration `json:"gc_interval"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// Listen 监听地址（如 ":8080"）
	Listen string `json:"listen"`

	// ReadTimeout 读超时
	ReadTimeout Duration `json:"read_timeout"`

	// WriteTimeout 写超时
	WriteTimeout Duration `json:"write_timeout"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Router: RouterConfig{
			DefaultEntryPoint:     "home.md",
			CacheTimeout:          Duration(300 * time.Second),
			FreshnessWindow:       Duration(1 * time.Hour),
			AllowDirectoryListing: false,
			PublisherCacheSize:    64,
			ContentDir:            "./content",
		},
		Storage: StorageConfig{
			DataDir:    "./data",
			SyncWrites: false,
			GCInterval: Duration(10 * time.Minute),
		},
		HTTP: HTTPConfig{
			Listen:       ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
	}
}

// Load 从 JSON 文件加载配置
//
// 文件中省略的字段保持默认值。
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Router.DefaultEntryPoint == "" {
		return fmt.Errorf("config: default_entry_point must not be empty")
	}
	if c.Router.CacheTimeout.Duration() <= 0 {
		return fmt.Errorf("config: cache_timeout must be positive")
	}
	if c.Router.FreshnessWindow.Duration() <= 0 {
		return fmt.Errorf("config: freshness_window must be positive")
	}
	if c.Router.PublisherCacheSize <= 0 {
		return fmt.Errorf("config: publisher_cache_size must be positive")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	if c.HTTP.Listen == "" {
		return fmt.Errorf("config: http listen address must not be empty")
	}
	return nil
}
