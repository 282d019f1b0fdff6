// Package kv 提供带前缀隔离的 KV 存储抽象层
//
// Store 在底层存储引擎之上提供命名空间隔离，
// 每个组件可以使用不同的前缀来隔离数据。
//
// # 键空间设计
//
// WebRouter 使用以下前缀约定：
//   - d/  - 本地 DHT 值存储
//   - w/  - Web 内容持久化（预留）
//
// # 使用示例
//
//	eng, _ := badger.New(cfg)
//	store := kv.New(eng, []byte("d/"))
//	store.Put([]byte("key"), valueBytes) // 实际键: d/key
package kv

import (
	"errors"

	"github.com/dep2p/go-webrouter/internal/core/storage/engine"
)

// Engine 本包需要的引擎能力
//
// 在 interfaces.Engine 之上增加前缀遍历，由 badger 实现提供。
type Engine interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error
}

// Store 带前缀隔离的 KV 存储
//
// Store 封装底层存储引擎，为所有键自动添加前缀，
// 实现数据命名空间隔离。
type Store struct {
	engine Engine
	prefix []byte
}

// New 创建新的 Store
//
// 参数:
//   - eng: 底层存储引擎
//   - prefix: 键前缀（所有操作会自动添加此前缀）
func New(eng Engine, prefix []byte) *Store {
	return &Store{
		engine: eng,
		prefix: prefix,
	}
}

// prefixKey 为键添加前缀
func (s *Store) prefixKey(key []byte) []byte {
	if len(s.prefix) == 0 {
		return key
	}
	prefixed := make([]byte, len(s.prefix)+len(key))
	copy(prefixed, s.prefix)
	copy(prefixed[len(s.prefix):], key)
	return prefixed
}

// stripPrefix 从键中移除前缀
func (s *Store) stripPrefix(key []byte) []byte {
	if len(s.prefix) == 0 || len(key) < len(s.prefix) {
		return key
	}
	return key[len(s.prefix):]
}

// Get 获取指定键的值
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.engine.Get(s.prefixKey(key))
}

// Put 设置键值对
func (s *Store) Put(key, value []byte) error {
	return s.engine.Put(s.prefixKey(key), value)
}

// Delete 删除指定键
func (s *Store) Delete(key []byte) error {
	return s.engine.Delete(s.prefixKey(key))
}

// Has 检查键是否存在
func (s *Store) Has(key []byte) (bool, error) {
	return s.engine.Has(s.prefixKey(key))
}

// ForEach 遍历本命名空间内的全部键值对
//
// 回调收到的键已去除前缀。fn 返回 false 时停止遍历。
func (s *Store) ForEach(fn func(key, value []byte) bool) error {
	return s.engine.ScanPrefix(s.prefix, func(key, value []byte) bool {
		return fn(s.stripPrefix(key), value)
	})
}

// NotFound 判断错误是否为键不存在
func NotFound(err error) bool {
	return errors.Is(err, engine.ErrNotFound)
}
