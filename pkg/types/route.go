// Package types 定义 WebRouter 的基础类型
//
// 本文件定义路由匹配与响应相关类型。
package types

// RouteMatch 路由匹配结果
//
// 每次路由调用产生一个临时值对象，本身不被缓存
// （只有由它派生的内容会进入内容缓存）。
type RouteMatch struct {
	// Identity 解析出的网络身份
	Identity NetworkIdentity

	// Path 解析后的内容路径（永不为空）
	Path string

	// IsHome 解析路径是否为默认入口页
	IsHome bool
}

// ServedContent 内容服务结果
type ServedContent struct {
	// Content 最终内容
	Content string

	// ContentType 内容类型
	ContentType string

	// Headers 响应头
	Headers map[string]string

	// StatusCode HTTP 状态码（200 或 404）
	StatusCode int
}

// CacheStats 缓存统计
type CacheStats struct {
	// ContentCacheSize 内容缓存条目数
	ContentCacheSize int

	// IdentityCacheSize 身份缓存条目数
	IdentityCacheSize int

	// PublisherCacheSize 发布器实例缓存条目数
	PublisherCacheSize int
}

// ============================================================================
//                              响应头常量
// ============================================================================

const (
	// HeaderSource 内容来源身份
	HeaderSource = "X-DHT-Source"

	// HeaderPath 解析后的内容路径
	HeaderPath = "X-DHT-Path"

	// HeaderHome 是否为默认入口页
	HeaderHome = "X-DHT-Home"

	// HeaderError 失败响应的错误指示头
	HeaderError = "X-DHT-Error"
)
