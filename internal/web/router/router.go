// Package router 实现 DHT Web 路由器
//
// Router 把四词身份加可选路径解析为可展示内容：
//   - 身份解析：缓存命中或 DHT 回退 + 签名门禁
//   - 内容缓存：ETag、修改时间、独立 TTL
//   - 单次回退到默认入口页，失败时返回确定性诊断页
//   - 身份注册与清单更新，成功后失效依赖缓存
//
// 每个 Router 实例拥有自己的缓存，无进程级全局状态，
// 测试可以并行构造多个互不干扰的实例。
package router

import (
	"context"
	"strings"
	"time"

	"github.com/dep2p/go-webrouter/internal/web/content"
	"github.com/dep2p/go-webrouter/internal/web/identity"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
	"github.com/dep2p/go-webrouter/pkg/types"
)

var logger = log.Logger("web/router")

// Options 路由器构造配置
type Options struct {
	// DefaultEntryPoint 默认入口页（默认 home.md）
	DefaultEntryPoint string

	// CacheTimeout 内容缓存超时（默认 300s）
	CacheTimeout time.Duration

	// FreshnessWindow 身份记录新鲜度窗口（默认 1h）
	FreshnessWindow time.Duration

	// AllowDirectoryListing 是否允许目录列表
	//
	// 关闭（默认）时目录形式的请求在目录内解析默认入口页；
	// 开启时目录路径原样传给发布器，由发布器决定是否合成列表。
	AllowDirectoryListing bool

	// PublisherCacheSize 发布器实例缓存容量（默认 64）
	PublisherCacheSize int

	// Keys 身份私钥提供者（清单更新需要）
	Keys interfaces.KeyProvider

	// Observers 事件观察者列表
	Observers []Observer

	// Metrics 指标集合（nil 时创建未注册的集合）
	Metrics *Metrics
}

// Router DHT Web 路由器
type Router struct {
	resolver   *PathResolver
	identities *identity.Store
	contents   *content.Cache
	publishers *content.PublisherCache
	dht        interfaces.DHT
	keys       interfaces.KeyProvider

	allowDirectoryListing bool

	observers []Observer
	metrics   *Metrics
}

// New 创建路由器
//
// 参数:
//   - dht: DHT 键值客户端
//   - factory: 发布器工厂（由调用方提供，解耦发布器构造方式）
//   - opts: 构造配置（nil 使用全部默认值）
func New(dht interfaces.DHT, factory interfaces.PublisherFactory, opts *Options) (*Router, error) {
	if opts == nil {
		opts = &Options{}
	}

	publishers, err := content.NewPublisherCache(factory, opts.PublisherCacheSize)
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &Router{
		resolver:              NewPathResolver(opts.DefaultEntryPoint),
		identities:            identity.NewStore(dht, opts.FreshnessWindow),
		contents:              content.NewCache(opts.CacheTimeout),
		publishers:            publishers,
		dht:                   dht,
		keys:                  opts.Keys,
		allowDirectoryListing: opts.AllowDirectoryListing,
		observers:             opts.Observers,
		metrics:               metrics,
	}, nil
}

// IdentityStore 返回身份记录存储（测试辅助）
func (r *Router) IdentityStore() *identity.Store {
	return r.identities
}

// ContentCache 返回内容缓存（测试辅助）
func (r *Router) ContentCache() *content.Cache {
	return r.contents
}

// Route 将原始请求字符串解析为路由匹配
//
// 失败:
//   - types.ErrInvalidURL: 无法提取身份标识
//   - types.ErrIdentityNotFound: 身份解析失败（含签名验证失败）
func (r *Router) Route(ctx context.Context, rawURL string) (*types.RouteMatch, error) {
	token, rawPath, err := SplitRequest(rawURL)
	if err != nil {
		return nil, err
	}

	fourWords, err := types.ParseFourWords(token)
	if err != nil {
		return nil, types.ErrInvalidURL
	}

	record, err := r.identities.Resolve(ctx, fourWords)
	if err != nil {
		return nil, err
	}

	path, isHome := r.resolvePath(rawPath)

	return &types.RouteMatch{
		Identity: types.NetworkIdentity{
			FourWords:  record.FourWordAddress,
			PublicKey:  record.PublicKeyBytes,
			DHTAddress: record.DHTAddress,
		},
		Path:   path,
		IsHome: isHome,
	}, nil
}

// resolvePath 应用目录列表策略后解析路径
func (r *Router) resolvePath(rawPath string) (string, bool) {
	if r.allowDirectoryListing {
		// 目录路径原样传给发布器
		p := strings.TrimPrefix(rawPath, "/")
		if p != "" && strings.HasSuffix(p, "/") {
			return p, false
		}
	}
	return r.resolver.Resolve(rawPath)
}

// ListForwardIdentities 列出当前缓存的身份记录
//
// 返回完整的记录快照，包含清单哈希、最后更新时间与签名。
func (r *Router) ListForwardIdentities() []*types.ForwardIdentityRecord {
	records := r.identities.List()
	out := make([]*types.ForwardIdentityRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, &types.ForwardIdentityRecord{
			FourWords:       rec.FourWordAddress,
			PublicKey:       append([]byte(nil), rec.PublicKeyBytes...),
			DHTAddress:      rec.DHTAddress,
			WebManifestHash: rec.WebManifestHash,
			LastUpdated:     time.Unix(0, rec.LastUpdated),
			Signature:       append([]byte(nil), rec.Signature...),
		})
	}
	return out
}

// WarmIdentityCache 从可遍历的 DHT 存储预热身份缓存
//
// 逐条反序列化并验签，验签失败的条目跳过，不进入缓存。
// 返回预热成功的记录数。
func (r *Router) WarmIdentityCache(src interfaces.DHTIterator) int {
	warmed := 0
	err := src.ForEach(func(_, value []byte) bool {
		record, err := identity.Unmarshal(value)
		if err != nil {
			return true
		}
		if err := record.Verify(); err != nil {
			return true
		}
		r.identities.PutCached(record)
		warmed++
		return true
	})
	if err != nil {
		logger.Warn("身份缓存预热中断", "error", err)
	}
	return warmed
}

// PreloadIdentity 预热身份缓存
func (r *Router) PreloadIdentity(ctx context.Context, fourWords string) error {
	normalized, err := types.ParseFourWords(fourWords)
	if err != nil {
		return types.ErrInvalidURL
	}
	_, err = r.identities.Resolve(ctx, normalized)
	return err
}

// ClearCache 清空全部缓存
func (r *Router) ClearCache() {
	r.contents.Clear()
	r.identities.Clear()
	r.publishers.Clear()
	logger.Info("全部缓存已清空")
	r.notifyCacheCleared()
}

// GetCacheStats 返回缓存统计
func (r *Router) GetCacheStats() types.CacheStats {
	return types.CacheStats{
		ContentCacheSize:   r.contents.Size(),
		IdentityCacheSize:  r.identities.Size(),
		PublisherCacheSize: r.publishers.Size(),
	}
}

var _ interfaces.Router = (*Router)(nil)
