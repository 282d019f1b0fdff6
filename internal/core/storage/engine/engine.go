// Package engine 定义存储引擎的内部配置与错误
//
// 公共 Engine 接口位于 pkg/interfaces，本包提供配置结构
// 和各实现共享的错误定义。
//
// # 线程安全
//
// 所有接口实现必须保证线程安全。
package engine

import (
	"os"
	"time"
)

// Config 存储引擎配置
type Config struct {
	// Path 数据目录路径
	Path string

	// SyncWrites 是否同步写入磁盘
	//
	// 开启后每次写入都落盘，更安全但更慢。
	SyncWrites bool

	// ReadOnly 只读模式
	ReadOnly bool

	// GCInterval 值日志垃圾回收间隔（0 表示禁用）
	GCInterval time.Duration

	// GCDiscardRatio 垃圾回收的空间回收阈值
	GCDiscardRatio float64
}

// DefaultConfig 返回默认配置
func DefaultConfig(path string) *Config {
	return &Config{
		Path:           path,
		SyncWrites:     false,
		ReadOnly:       false,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio > 1 {
		return ErrInvalidConfig
	}
	return nil
}

// EnsureDir 确保数据目录存在
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Path, 0o755)
}
