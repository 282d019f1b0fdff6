package webrouter

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/internal/core/storage"
	"github.com/dep2p/go-webrouter/internal/dht"
	"github.com/dep2p/go-webrouter/internal/web/publisher"
	"github.com/dep2p/go-webrouter/internal/web/router"
	"github.com/dep2p/go-webrouter/internal/web/server"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// App 组装完成的 WebRouter 应用
type App struct {
	fxApp  *fx.App
	router interfaces.Router
}

// New 按配置组装 WebRouter 应用
//
// extra 用于测试或嵌入场景追加 Fx 选项（如替换 DHT 客户端）。
func New(cfg *config.Config, extra ...fx.Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{}

	opts := []fx.Option{
		fx.Supply(cfg),
		storage.Module,
		dht.Module,
		publisher.Module,
		router.Module,
		server.Module,
		fx.Populate(&app.router),

		// 禁用 Fx 自身的日志输出，避免干扰业务日志
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}
	opts = append(opts, extra...)

	app.fxApp = fx.New(opts...)
	if err := app.fxApp.Err(); err != nil {
		return nil, fmt.Errorf("webrouter: assembly failed: %w", err)
	}
	return app, nil
}

// Start 启动应用（存储引擎、HTTP 服务）
func (a *App) Start(ctx context.Context) error {
	return a.fxApp.Start(ctx)
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	return a.fxApp.Stop(ctx)
}

// Router 返回路由器接口
func (a *App) Router() interfaces.Router {
	return a.router
}
