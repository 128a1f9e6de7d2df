package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"digitex-connector/internal/container"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := c.Build(); err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}
	lg := c.Logger()
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify ready", zap.Error(err))
	}

	cfg := c.Config()
	if cfg.Algorithm.Symbol != "" {
		sym, err := cfg.AlgorithmSymbol(c.Registry())
		if err != nil {
			lg.Fatal("algorithm symbol", zap.Error(err))
		}
		trader := newIntervalTrader(c.Aggregator(), sym, cfg.Algorithm.QuantityDecimal(), lg.Named("algo"))
		go trader.run(ctx, cfg.Algorithm.Interval)
		lg.Info("algorithm started",
			zap.String("symbol", sym.Name),
			zap.Duration("interval", cfg.Algorithm.Interval))
	}

	<-ctx.Done()
	lg.Info("shutting down")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err := c.Stop(); err != nil {
		log.Printf("停止失败: %v", err)
		os.Exit(1)
	}
}
