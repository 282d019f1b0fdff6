// Package content 提供 (身份, 路径) 到已渲染内容的缓存
//
// 本文件实现内容缓存：带 ETag 与修改时间的 TTL 缓存。
package content

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
)

// DefaultCacheTimeout 默认内容缓存超时
const DefaultCacheTimeout = 300 * time.Second

// CachedContent 缓存的内容条目
type CachedContent struct {
	// Content 内容
	Content string

	// ContentType 内容类型
	ContentType string

	// LastModified 写入时间
	LastModified time.Time

	// ETag 内容派生标签（内容字节的确定性函数）
	ETag string
}

// cacheKey 组合 (身份, 路径) 为缓存键
func cacheKey(fourWords, path string) string {
	return fourWords + "/" + path
}

// ComputeETag 计算内容的确定性 ETag
//
// 相同字节产生相同标签；不同字节以压倒性概率产生不同标签。
func ComputeETag(content []byte) string {
	h := sha256.Sum256(content)
	return base58.Encode(h[:16])
}

// Cache 内容缓存
//
// Get 在条目写入后 timeout 内命中；超时后按未命中处理，
// 但条目保留到被覆盖为止（避免不必要的删除churn）。
// Invalidate 删除某身份的全部条目，用于清单更新后保证
// 新清单下不再提供旧内容。
type Cache struct {
	// timeout 缓存超时
	timeout time.Duration

	// clock 时钟（测试中可替换为 mock）
	clock clock.Clock

	entries map[string]*CachedContent
	// byIdentity 身份到缓存键集合的索引，加速整身份失效
	byIdentity map[string]map[string]struct{}
	mu         sync.RWMutex
}

// NewCache 创建内容缓存
func NewCache(timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultCacheTimeout
	}
	return &Cache{
		timeout:    timeout,
		clock:      clock.New(),
		entries:    make(map[string]*CachedContent),
		byIdentity: make(map[string]map[string]struct{}),
	}
}

// SetClock 替换时钟（测试辅助）
func (c *Cache) SetClock(cl clock.Clock) {
	c.clock = cl
}

// Timeout 返回缓存超时
func (c *Cache) Timeout() time.Duration {
	return c.timeout
}

// Get 获取缓存条目
//
// 超时条目按未命中处理但不删除。
func (c *Cache) Get(fourWords, path string) (*CachedContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[cacheKey(fourWords, path)]
	if !exists {
		return nil, false
	}
	if c.clock.Now().Sub(entry.LastModified) >= c.timeout {
		return nil, false
	}
	return entry, true
}

// Put 写入缓存条目
//
// ETag 在写入时从内容字节确定性计算。整条替换，
// 并发读取方不会观察到半写状态。
func (c *Cache) Put(fourWords, path, content, contentType string) *CachedContent {
	entry := &CachedContent{
		Content:      content,
		ContentType:  contentType,
		LastModified: c.clock.Now(),
		ETag:         ComputeETag([]byte(content)),
	}

	key := cacheKey(fourWords, path)

	c.mu.Lock()
	c.entries[key] = entry
	keys := c.byIdentity[fourWords]
	if keys == nil {
		keys = make(map[string]struct{})
		c.byIdentity[fourWords] = keys
	}
	keys[key] = struct{}{}
	c.mu.Unlock()

	return entry
}

// Invalidate 删除某身份的全部条目
//
// 返回删除的条目数。
func (c *Cache) Invalidate(fourWords string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, exists := c.byIdentity[fourWords]
	if !exists {
		return 0
	}
	for key := range keys {
		delete(c.entries, key)
	}
	delete(c.byIdentity, fourWords)
	return len(keys)
}

// Size 返回缓存条目数
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear 清空缓存
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CachedContent)
	c.byIdentity = make(map[string]map[string]struct{})
}
