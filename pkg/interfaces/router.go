// Package interfaces - Router 路由器接口
//
// 本文件定义 DHT Web 路由器对外暴露的完整接口，
// 对应 internal/web/router/ 实现。
package interfaces

import (
	"context"

	"github.com/dep2p/go-webrouter/pkg/types"
)

// Router DHT Web 路由器接口
//
// Router 将四词身份加可选路径解析为可展示内容：
//   - 名称解析（身份缓存 + DHT 回退 + 签名门禁）
//   - 内容缓存（ETag、修改时间、独立 TTL）
//   - 默认入口页回退与确定性错误页
//   - 身份注册与清单更新（写 DHT 并失效依赖缓存）
//
// 架构位置：Web Layer
// 实现位置：internal/web/router/
type Router interface {
	// Route 将原始请求字符串解析为路由匹配
	//
	// 输入形如 "identity/path" 或仅 "identity"，可带 scheme/host 前缀。
	//
	// 返回:
	//   - types.ErrInvalidURL: 无法提取身份标识
	//   - types.ErrIdentityNotFound: 身份解析失败（含签名验证失败）
	Route(ctx context.Context, rawURL string) (*types.RouteMatch, error)

	// ServeContent 为路由匹配提供内容
	//
	// 任何未恢复的失败都转换为带诊断页的 404 响应，
	// 永远不会向调用方抛出未处理的故障。
	ServeContent(ctx context.Context, match *types.RouteMatch) *types.ServedContent

	// RegisterForwardIdentity 注册（或更新）身份记录
	//
	// 使用私钥签名记录并写入 DHT，成功后更新本地身份缓存。
	// DHT 写入失败会向调用方传播。
	RegisterForwardIdentity(ctx context.Context, req *RegisterRequest) error

	// UpdateWebManifest 更新身份的内容清单哈希
	//
	// 要求身份已有缓存记录（否则返回 types.ErrNotRegistered）。
	// 成功后失效该身份的全部内容缓存条目。
	UpdateWebManifest(ctx context.Context, fourWords string, newManifestHash string) error

	// ListForwardIdentities 列出当前缓存的身份记录
	//
	// 返回完整的记录快照（含清单哈希与签名元数据），按四词地址排序。
	ListForwardIdentities() []*types.ForwardIdentityRecord

	// PreloadIdentity 预热身份缓存
	PreloadIdentity(ctx context.Context, fourWords string) error

	// ClearCache 清空全部缓存（内容、身份、发布器实例）
	ClearCache()

	// GetCacheStats 返回缓存统计
	GetCacheStats() types.CacheStats
}

// KeyProvider 身份私钥提供者
//
// 由调用方在构造 Router 时提供。清单更新需要用身份私钥重新签名
// 记录，密钥材料保持外部管理，路由器从不持久化。
type KeyProvider interface {
	// PrivateKeyFor 返回身份的 Ed25519 私钥原始字节
	//
	// 身份没有可用密钥时返回错误。
	PrivateKeyFor(fourWords string) ([]byte, error)
}

// RegisterRequest 身份注册请求
type RegisterRequest struct {
	// FourWords 四词地址
	FourWords string

	// DHTAddress DHT 地址指针
	DHTAddress string

	// WebManifestHash 内容清单哈希
	WebManifestHash string

	// PrivateKeyBytes Ed25519 私钥原始字节（不持久化）
	PrivateKeyBytes []byte
}
