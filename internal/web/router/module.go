package router

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// Module 路由器 Fx 模块
var Module = fx.Module("web_router",
	fx.Provide(
		NewFromParams,
	),
	fx.Invoke(
		registerWarmupLifecycle,
	),
)

// Params 路由器依赖参数
type Params struct {
	fx.In

	DHT      interfaces.DHT
	Factory  interfaces.PublisherFactory
	Cfg      *config.Config              `optional:"true"`
	Keys     interfaces.KeyProvider      `optional:"true"`
	Registry *prometheus.Registry        `optional:"true"`
	Obs      []Observer                  `group:"router_observers"`
}

// Result 路由器导出结果
type Result struct {
	fx.Out

	Router *Router
	Iface  interfaces.Router
}

// NewFromParams 从 Fx 参数创建路由器
func NewFromParams(p Params) (Result, error) {
	opts := &Options{
		Keys:      p.Keys,
		Observers: p.Obs,
	}

	if p.Cfg != nil {
		opts.DefaultEntryPoint = p.Cfg.Router.DefaultEntryPoint
		opts.CacheTimeout = p.Cfg.Router.CacheTimeout.Duration()
		opts.FreshnessWindow = p.Cfg.Router.FreshnessWindow.Duration()
		opts.AllowDirectoryListing = p.Cfg.Router.AllowDirectoryListing
		opts.PublisherCacheSize = p.Cfg.Router.PublisherCacheSize
	}
	if p.Registry != nil {
		opts.Metrics = NewMetrics(p.Registry)
	}

	r, err := New(p.DHT, p.Factory, opts)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Router: r,
		Iface:  r,
	}, nil
}

// registerWarmupLifecycle 注册身份缓存预热钩子
//
// DHT 实现支持遍历（本地持久化存储）时，启动阶段把已持久化的
// 身份记录预热进缓存；纯远端实现不支持遍历，跳过。
func registerWarmupLifecycle(lc fx.Lifecycle, r *Router, d interfaces.DHT) {
	src, ok := d.(interfaces.DHTIterator)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			warmed := r.WarmIdentityCache(src)
			logger.Info("身份缓存预热完成", "count", warmed)
			return nil
		},
	})
}
