// Package content - 发布器实例缓存
//
// 按身份缓存发布器实例。发布器构造需要定位清单并打开存储，
// 不便宜，因此复用实例；缓存有界，最久未使用的实例被淘汰。
package content

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// DefaultPublisherCacheSize 发布器实例缓存容量
const DefaultPublisherCacheSize = 64

// PublisherCache 有界的发布器实例缓存
//
// 键为四词地址。清单更新后必须 Remove 对应实例，
// 使后续请求用新清单重建发布器。
type PublisherCache struct {
	factory interfaces.PublisherFactory
	cache   *lru.Cache[string, interfaces.Publisher]
}

// NewPublisherCache 创建发布器实例缓存
func NewPublisherCache(factory interfaces.PublisherFactory, size int) (*PublisherCache, error) {
	if size <= 0 {
		size = DefaultPublisherCacheSize
	}
	cache, err := lru.New[string, interfaces.Publisher](size)
	if err != nil {
		return nil, err
	}
	return &PublisherCache{
		factory: factory,
		cache:   cache,
	}, nil
}

// Get 获取身份的发布器实例，必要时通过工厂构造
func (p *PublisherCache) Get(fourWords, webManifestHash string) (interfaces.Publisher, error) {
	if pub, ok := p.cache.Get(fourWords); ok {
		return pub, nil
	}

	pub, err := p.factory.CreatePublisher(fourWords, webManifestHash)
	if err != nil {
		return nil, err
	}

	// 并发未命中时后写的实例生效，发布器构造是幂等的
	p.cache.Add(fourWords, pub)
	return pub, nil
}

// Remove 移除身份的发布器实例
func (p *PublisherCache) Remove(fourWords string) {
	p.cache.Remove(fourWords)
}

// Size 返回缓存实例数
func (p *PublisherCache) Size() int {
	return p.cache.Len()
}

// Clear 清空缓存
func (p *PublisherCache) Clear() {
	p.cache.Purge()
}
