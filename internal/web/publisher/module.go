package publisher

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// Module 本地发布器 Fx 模块
var Module = fx.Module("web_publisher",
	fx.Provide(
		NewFactoryFromParams,
	),
)

// Params 发布器工厂依赖参数
type Params struct {
	fx.In

	Cfg *config.Config
}

// Result 发布器工厂导出结果
type Result struct {
	fx.Out

	Factory interfaces.PublisherFactory
}

// NewFactoryFromParams 从 Fx 参数创建本地发布器工厂
func NewFactoryFromParams(p Params) Result {
	return Result{
		Factory: Factory(p.Cfg.Router.ContentDir),
	}
}
