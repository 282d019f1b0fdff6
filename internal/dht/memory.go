// Package dht 提供 WebRouter 使用的 DHT 客户端实现
//
// WebRouter 将 DHT 视为不透明的键值存储（pkg/interfaces.DHT）。
// 本包提供两个实现：
//
//   - MemoryClient: 进程内存储，用于测试与演示
//   - LocalClient:  存储引擎持久化，用于单节点部署
//
// 真实的分布式 DHT 由外部协作者提供，不在本仓库范围内。
package dht

import (
	"context"
	"sync"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// MemoryClient 内存 DHT 客户端
//
// 所有值保存在进程内 map 中，整条替换写入。
type MemoryClient struct {
	store map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryClient 创建内存 DHT 客户端
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		store: make(map[string][]byte),
	}
}

// Get 获取指定键的值
func (c *MemoryClient) Get(_ context.Context, key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.store[string(key)]
	if !exists {
		return nil, interfaces.ErrKeyNotFound
	}

	// 返回副本，避免调用方修改影响存储
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Put 存储键值对
func (c *MemoryClient) Put(_ context.Context, key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	c.store[string(key)] = stored
	return nil
}

// Delete 删除指定键（测试辅助）
func (c *MemoryClient) Delete(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, string(key))
}

// Size 返回存储的键数量
func (c *MemoryClient) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// ForEach 遍历全部条目
//
// fn 收到值的副本；遍历期间持读锁，fn 不得回调本客户端的写方法。
func (c *MemoryClient) ForEach(fn func(key, value []byte) bool) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for k, v := range c.store {
		value := make([]byte, len(v))
		copy(value, v)
		if !fn([]byte(k), value) {
			return nil
		}
	}
	return nil
}

var (
	_ interfaces.DHT         = (*MemoryClient)(nil)
	_ interfaces.DHTIterator = (*MemoryClient)(nil)
)
