package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
)

var ErrSymbolNotFound = errors.New("symbol not found")

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate 返回第一个不合法的字段。
func Validate(cfg AppConfig) error {
	switch cfg.Env {
	case "":
		return ErrInvalid("env is required")
	case EnvTestnet, EnvMainnet:
	default:
		return ErrInvalid(fmt.Sprintf("env must be %s or %s, got %q", EnvTestnet, EnvMainnet, cfg.Env))
	}
	g := cfg.Gateway
	if g.HandshakeTimeout < 0 || g.RetryBackoff < 0 || g.ReadTimeout < 0 {
		return ErrInvalid("gateway timeouts must be >= 0")
	}
	if g.MaxRetries < 0 {
		return ErrInvalid("gateway.maxRetries must be >= 0")
	}
	if g.SendRate < 0 || g.SendBurst < 0 {
		return ErrInvalid("gateway.sendRate/sendBurst must be >= 0")
	}
	if cfg.Log.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
			return ErrInvalid(fmt.Sprintf("log.level: %v", err))
		}
	}
	if cfg.Log.Format != "" && cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return ErrInvalid("log.format must be json or console")
	}
	a := cfg.Algorithm
	if a.Symbol == "" {
		return nil // 不运行示例算法
	}
	if a.Interval <= 0 {
		return ErrInvalid("algorithm.interval must be > 0")
	}
	q, err := decimal.NewFromString(a.Quantity)
	if err != nil || !q.IsPositive() {
		return ErrInvalid(fmt.Sprintf("algorithm.quantity must be a positive decimal, got %q", a.Quantity))
	}
	return nil
}
