// Package storage 提供存储引擎的 Fx 装配
package storage

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/internal/core/storage/engine"
	"github.com/dep2p/go-webrouter/internal/core/storage/engine/badger"
	"github.com/dep2p/go-webrouter/internal/core/storage/kv"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// Module 存储 Fx 模块
var Module = fx.Module("storage",
	fx.Provide(
		NewFromParams,
	),
	fx.Invoke(registerStorageLifecycle),
)

// Params 存储依赖参数
type Params struct {
	fx.In

	Cfg *config.Config
}

// Result 存储导出结果
type Result struct {
	fx.Out

	Engine   *badger.Engine
	KVEngine kv.Engine
	Iface    interfaces.Engine
}

// NewFromParams 从 Fx 参数创建存储引擎
func NewFromParams(p Params) (Result, error) {
	cfg := engine.DefaultConfig(p.Cfg.Storage.DataDir)
	cfg.SyncWrites = p.Cfg.Storage.SyncWrites
	if gc := p.Cfg.Storage.GCInterval.Duration(); gc > 0 {
		cfg.GCInterval = gc
	}

	eng, err := badger.New(cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Engine:   eng,
		KVEngine: eng,
		Iface:    eng,
	}, nil
}

// registerStorageLifecycle 注册存储引擎生命周期钩子
func registerStorageLifecycle(lc fx.Lifecycle, eng *badger.Engine) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return eng.Close()
		},
	})
}
