package dht

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-webrouter/internal/core/storage/kv"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// Module DHT 客户端 Fx 模块
//
// 默认装配持久化本地客户端（单节点部署）。
// 分布式部署替换此模块，提供真实 DHT 网络客户端即可。
var Module = fx.Module("dht",
	fx.Provide(
		NewFromParams,
	),
)

// Params DHT 客户端依赖参数
type Params struct {
	fx.In

	Engine kv.Engine
}

// Result DHT 客户端导出结果
type Result struct {
	fx.Out

	Local *LocalClient
	DHT   interfaces.DHT
}

// NewFromParams 从 Fx 参数创建本地 DHT 客户端
func NewFromParams(p Params) Result {
	client := NewLocalClient(p.Engine)
	return Result{
		Local: client,
		DHT:   client,
	}
}
