// Package main 提供 webrouterd 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	webrouter "github.com/dep2p/go-webrouter"
	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
)

var logger = log.Logger("webrouter/cmd")

// Version 版本号（构建时通过 -ldflags 注入）
var Version = "dev"

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//	命令行参数：运行时覆盖 / 快速测试
//	JSON 配置文件：持久化配置 / 长期运行
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 运行时参数
	// ─────────────────────────────────────────────────────────────────────
	listenAddr = flag.String("listen", "", "HTTP 监听地址（覆盖配置文件）")
	configFile = flag.String("config", "", "配置文件路径")
	dataDir    = flag.String("data-dir", "", "数据目录（默认: ./data）")
	contentDir = flag.String("content-dir", "", "发布内容根目录（默认: ./content）")

	// ─────────────────────────────────────────────────────────────────────
	// 日志参数
	// ─────────────────────────────────────────────────────────────────────
	logFile  = flag.String("log", "", "日志文件路径（默认输出到控制台）")
	logLevel = flag.String("log-level", "info", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Printf("webrouterd %s\n", Version)
		return nil
	}

	if err := setupLogging(); err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	app, err := webrouter.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	logger.Info("webrouterd 已启动",
		"version", Version,
		"listen", cfg.HTTP.Listen,
		"dataDir", cfg.Storage.DataDir,
		"contentDir", cfg.Router.ContentDir)

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("收到退出信号", "signal", sig.String())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("停止失败: %w", err)
	}

	logger.Info("webrouterd 已停止")
	return nil
}

// buildConfig 合并配置文件与命令行覆盖
func buildConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	// 命令行参数覆盖配置文件
	if *listenAddr != "" {
		cfg.HTTP.Listen = *listenAddr
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *contentDir != "" {
		cfg.Router.ContentDir = *contentDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging 配置日志输出与级别
func setupLogging() error {
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		return err
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		log.SetOutputWithLevel(f, level)
		return nil
	}

	log.SetLevel(level)
	return nil
}
