// Package badger 提供基于 BadgerDB 的存储引擎实现
//
// BadgerDB 是一个高性能的嵌入式键值存储引擎，基于 LSM 树，
// 支持 ACID 事务与值日志垃圾回收。
//
// # 使用示例
//
//	cfg := engine.DefaultConfig("/data/storage")
//	db, err := badger.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package badger

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dep2p/go-webrouter/internal/core/storage/engine"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
)

var logger = log.Logger("storage/badger")

// Engine BadgerDB 存储引擎
type Engine struct {
	db     *badger.DB
	config *engine.Config
	closed atomic.Bool

	// 统计信息
	numReads  atomic.Int64
	numWrites atomic.Int64

	// 后台垃圾回收
	gcCtx    context.Context
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
}

// New 创建新的 BadgerDB 存储引擎
//
// 打开成功后自动启动垃圾回收循环（如果配置了 GCInterval）。
func New(cfg *engine.Config) (*Engine, error) {
	if cfg == nil {
		return nil, engine.ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithReadOnly(cfg.ReadOnly).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		db:       db,
		config:   cfg,
		gcCtx:    ctx,
		gcCancel: cancel,
	}

	if cfg.GCInterval > 0 && !cfg.ReadOnly {
		e.startGC()
	}

	logger.Info("BadgerDB 存储引擎已打开", "path", cfg.Path)
	return e, nil
}

// startGC 启动垃圾回收后台任务
func (e *Engine) startGC() {
	e.gcWg.Add(1)
	go func() {
		defer e.gcWg.Done()

		ticker := time.NewTicker(e.config.GCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-e.gcCtx.Done():
				return
			case <-ticker.C:
				e.runGC()
			}
		}
	}()
}

// runGC 执行一次垃圾回收
//
// 循环运行直到没有更多可回收的空间。
func (e *Engine) runGC() {
	if e.closed.Load() {
		return
	}
	for {
		if err := e.db.RunValueLogGC(e.config.GCDiscardRatio); err != nil {
			return
		}
	}
}

// --- 公共接口实现 (interfaces.Engine) ---

// Get 获取指定键的值
func (e *Engine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, engine.ErrClosed
	}
	if len(key) == 0 {
		return nil, engine.ErrEmptyKey
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return engine.ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	e.numReads.Add(1)

	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put 设置键值对
func (e *Engine) Put(key, value []byte) error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.ReadOnly {
		return engine.ErrReadOnly
	}
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}

	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err == nil {
		e.numWrites.Add(1)
	}
	return err
}

// Delete 删除指定键
func (e *Engine) Delete(key []byte) error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.ReadOnly {
		return engine.ErrReadOnly
	}
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}

	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Has 检查键是否存在
func (e *Engine) Has(key []byte) (bool, error) {
	if e.closed.Load() {
		return false, engine.ErrClosed
	}
	if len(key) == 0 {
		return false, engine.ErrEmptyKey
	}

	var exists bool
	err := e.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			exists = true
			return nil
		}
		if err == badger.ErrKeyNotFound {
			exists = false
			return nil
		}
		return err
	})
	return exists, err
}

// ScanPrefix 遍历具有指定前缀的键值对
//
// fn 返回 false 时停止遍历。key/value 在回调间不可保留，
// 需要保留时必须复制。
func (e *Engine) ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return engine.ErrClosed
	}

	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(key, value) {
				break
			}
		}
		return nil
	})
}

// Close 关闭存储引擎
//
// 停止垃圾回收并关闭底层数据库。重复关闭是安全的。
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}

	e.gcCancel()
	e.gcWg.Wait()

	logger.Info("BadgerDB 存储引擎已关闭",
		"reads", e.numReads.Load(),
		"writes", e.numWrites.Load())
	return e.db.Close()
}
