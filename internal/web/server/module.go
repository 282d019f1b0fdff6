package server

import (
	"context"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
)

// Module HTTP 服务 Fx 模块
var Module = fx.Module("web_server",
	fx.Provide(
		NewRegistry,
		NewKeyProviderFromParams,
		NewFromParams,
	),
	fx.Invoke(registerServerLifecycle),
)

// NewRegistry 创建 Prometheus 注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}

// NewKeyProviderFromParams 创建密钥库私钥提供者
//
// 密钥文件存放在数据目录的 keys/ 子目录。
func NewKeyProviderFromParams(cfg *config.Config) (*KeystoreProvider, interfaces.KeyProvider, error) {
	ks, err := crypto.NewFSKeystore(filepath.Join(cfg.Storage.DataDir, "keys"), nil)
	if err != nil {
		return nil, nil, err
	}
	provider := NewKeystoreProvider(ks)
	return provider, provider, nil
}

// Params HTTP 服务依赖参数
type Params struct {
	fx.In

	Router   interfaces.Router
	Keys     *KeystoreProvider
	Registry *prometheus.Registry
	Cfg      *config.Config
}

// NewFromParams 从 Fx 参数创建 HTTP 服务
func NewFromParams(p Params) *Server {
	return New(p.Router, p.Keys, p.Registry, p.Cfg)
}

// registerServerLifecycle 注册 HTTP 服务生命周期钩子
func registerServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
