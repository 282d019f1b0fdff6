// Package interfaces 定义 WebRouter 公共接口
//
// 本文件定义 DHT 键值存储接口。WebRouter 将底层分布式哈希表
// 视为不透明的键值存储，不关心路由表、复制与节点发现。
package interfaces

import (
	"context"
	"errors"
)

// ErrKeyNotFound DHT 中不存在指定键
var ErrKeyNotFound = errors.New("dht: key not found")

// DHT 分布式哈希表键值接口
//
// 实现位置：internal/dht/
//
// 实现必须保证线程安全。Get 对不存在的键返回 ErrKeyNotFound。
//
// 使用示例:
//
//	value, err := client.Get(ctx, key)
//	if errors.Is(err, interfaces.ErrKeyNotFound) {
//	    // 键不存在
//	}
type DHT interface {
	// Get 获取指定键的值
	//
	// 返回:
	//   - []byte: 值的副本
	//   - error: ErrKeyNotFound 如果键不存在，其他错误表示存储故障
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Put 存储键值对
	//
	// 如果键已存在，则覆盖旧值。
	Put(ctx context.Context, key, value []byte) error
}

// DHTIterator 可遍历的 DHT 存储
//
// 本地实现可选支持，用于启动时把持久化的身份记录预热进缓存。
type DHTIterator interface {
	// ForEach 遍历全部条目
	//
	// fn 返回 false 时提前终止。遍历期间的写入是否可见由实现决定。
	ForEach(fn func(key, value []byte) bool) error
}
