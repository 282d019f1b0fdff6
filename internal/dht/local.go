package dht

import (
	"context"

	"github.com/dep2p/go-webrouter/internal/core/storage/kv"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
)

var logger = log.Logger("dht/local")

// LocalKeyPrefix 本地 DHT 在存储引擎中的键前缀
var LocalKeyPrefix = []byte("d/")

// LocalClient 存储引擎持久化的 DHT 客户端
//
// 将 DHT 键值落到本地存储引擎（BadgerDB），用于单节点部署：
// 身份记录在进程重启后仍然可解析。
type LocalClient struct {
	store *kv.Store
}

// NewLocalClient 创建持久化 DHT 客户端
//
// 参数:
//   - eng: 底层存储引擎（需支持前缀遍历）
func NewLocalClient(eng kv.Engine) *LocalClient {
	return &LocalClient{
		store: kv.New(eng, LocalKeyPrefix),
	}
}

// Get 获取指定键的值
func (c *LocalClient) Get(_ context.Context, key []byte) ([]byte, error) {
	value, err := c.store.Get(key)
	if err != nil {
		if kv.NotFound(err) {
			return nil, interfaces.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

// Put 存储键值对
func (c *LocalClient) Put(_ context.Context, key, value []byte) error {
	if err := c.store.Put(key, value); err != nil {
		return err
	}
	logger.Debug("本地 DHT 写入", "key", string(key), "size", len(value))
	return nil
}

// ForEach 遍历全部条目
//
// 供启动时的身份目录预热使用（见 router.WarmIdentityCache）。
func (c *LocalClient) ForEach(fn func(key, value []byte) bool) error {
	return c.store.ForEach(fn)
}

var (
	_ interfaces.DHT         = (*LocalClient)(nil)
	_ interfaces.DHTIterator = (*LocalClient)(nil)
)
