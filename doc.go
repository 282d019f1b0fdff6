// Package webrouter 提供 DHT 支撑的 Web 路由器
//
// WebRouter 将四词人类可读身份（如 "ocean-forest-moon-star"）解析为
// DHT 中的签名身份记录，并通过身份绑定的发布器获取、渲染和缓存内容。
//
// # 快速开始
//
//	cfg := config.Default()
//	app, err := webrouter.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := app.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer app.Stop(ctx)
//
// # 架构分层
//
//	cmd/webrouterd         命令行入口
//	internal/web/server    HTTP 服务（chi）
//	internal/web/router    路由核心（解析、缓存、回退、注册）
//	internal/web/identity  身份记录（签名、验证、新鲜度）
//	internal/web/content   内容缓存与发布器实例缓存
//	internal/web/publisher 本地文件系统发布器（markdown 渲染）
//	internal/dht           DHT 客户端（内存 / 本地持久化）
//	internal/core/storage  存储引擎（BadgerDB）
package webrouter
