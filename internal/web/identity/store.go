// Package identity 提供四词身份的记录模型与解析缓存
//
// 本文件实现身份记录存储：有界 TTL 缓存 + DHT 回退解析。
package identity

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
	"github.com/dep2p/go-webrouter/pkg/types"
)

var logger = log.Logger("web/identity")

// Store 身份记录存储
//
// Resolve 优先命中本地缓存（新鲜度窗口内），否则回源 DHT 并验证
// 签名。验证失败与记录不存在对调用方不可区分（反枚举设计）。
//
// 保证：调用方永远观察不到未验证的记录；缓存只在验证成功后写入，
// 且为整条替换。
type Store struct {
	dht interfaces.DHT

	// freshnessWindow 缓存新鲜度窗口
	freshnessWindow time.Duration

	// clock 时钟（测试中可替换为 mock）
	clock clock.Clock

	cache map[string]*ForwardIdentityRecord
	mu    sync.RWMutex
}

// NewStore 创建身份记录存储
func NewStore(dht interfaces.DHT, freshnessWindow time.Duration) *Store {
	if freshnessWindow <= 0 {
		freshnessWindow = DefaultFreshnessWindow
	}
	return &Store{
		dht:             dht,
		freshnessWindow: freshnessWindow,
		clock:           clock.New(),
		cache:           make(map[string]*ForwardIdentityRecord),
	}
}

// SetClock 替换时钟（测试辅助）
func (s *Store) SetClock(c clock.Clock) {
	s.clock = c
}

// Resolve 解析四词身份到其签名记录
//
// 流程:
//  1. 缓存命中且在新鲜度窗口内：直接返回，不访问网络
//  2. 从 DHT 获取记录字节；不存在 => types.ErrIdentityNotFound
//  3. 反序列化并验证签名；失败同样返回 types.ErrIdentityNotFound，
//     记录不进入缓存
//  4. 验证成功后整条替换缓存并返回
func (s *Store) Resolve(ctx context.Context, fourWords string) (*ForwardIdentityRecord, error) {
	if fourWords == "" {
		return nil, types.ErrIdentityNotFound
	}

	now := s.clock.Now()

	s.mu.RLock()
	cached, exists := s.cache[fourWords]
	s.mu.RUnlock()

	if exists && cached.IsFresh(now, s.freshnessWindow) {
		logger.Debug("身份缓存命中", "fourWords", fourWords)
		return cached, nil
	}

	data, err := s.dht.Get(ctx, DHTKey(fourWords))
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			logger.Debug("DHT 中不存在身份记录", "fourWords", fourWords)
			return nil, types.ErrIdentityNotFound
		}
		return nil, err
	}

	record, err := Unmarshal(data)
	if err != nil {
		logger.Warn("身份记录反序列化失败", "fourWords", fourWords, "error", err)
		return nil, types.ErrIdentityNotFound
	}

	// 签名门禁：验证失败与不存在等同，绝不缓存
	if err := record.Verify(); err != nil {
		logger.Warn("身份记录签名验证失败", "fourWords", fourWords, "error", err)
		return nil, types.ErrIdentityNotFound
	}

	// 记录的地址必须与查询一致，防止键值错配
	if record.FourWordAddress != fourWords {
		logger.Warn("身份记录地址不匹配",
			"requested", fourWords,
			"recordAddress", record.FourWordAddress)
		return nil, types.ErrIdentityNotFound
	}

	s.mu.Lock()
	s.cache[fourWords] = record
	s.mu.Unlock()

	logger.Debug("身份记录已解析并缓存", "fourWords", fourWords)
	return record, nil
}

// PutCached 直接写入已验证的记录
//
// 供注册流程在 DHT 写入成功后更新本地缓存，避免立即回源。
// 调用方必须保证记录已通过签名验证。
func (s *Store) PutCached(record *ForwardIdentityRecord) {
	if record == nil || record.FourWordAddress == "" {
		return
	}
	s.mu.Lock()
	s.cache[record.FourWordAddress] = record
	s.mu.Unlock()
}

// GetCached 获取缓存记录（不回源、不检查新鲜度）
//
// 供清单更新前置检查使用。
func (s *Store) GetCached(fourWords string) (*ForwardIdentityRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.cache[fourWords]
	return record, exists
}

// List 返回全部缓存记录（按地址排序）
func (s *Store) List() []*ForwardIdentityRecord {
	s.mu.RLock()
	records := make([]*ForwardIdentityRecord, 0, len(s.cache))
	for _, r := range s.cache {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].FourWordAddress < records[j].FourWordAddress
	})
	return records
}

// Size 返回缓存条目数
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Clear 清空缓存
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*ForwardIdentityRecord)
}
