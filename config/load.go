package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"digitex-connector/gateway"
	"digitex-connector/infrastructure/logger"
	"digitex-connector/market"
)

const (
	EnvTestnet = "testnet"
	EnvMainnet = "mainnet"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string          `yaml:"env"`
	Gateway     GatewayConfig   `yaml:"gateway"`
	SymbolsFile string          `yaml:"symbolsFile"`
	Log         logger.Config   `yaml:"log"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Algorithm   AlgorithmConfig `yaml:"algorithm"`
}

// GatewayConfig 描述交易所两条 WebSocket 通道。
type GatewayConfig struct {
	Host             string        `yaml:"host"` // 为空时按 env 选择 testnet/mainnet
	Token            string        `yaml:"token"`
	Insecure         bool          `yaml:"insecure"`
	DataPath         string        `yaml:"dataPath"`
	ControlPath      string        `yaml:"controlPath"`
	HandshakeTimeout time.Duration `yaml:"handshakeTimeout"`
	RetryBackoff     time.Duration `yaml:"retryBackoff"`
	MaxRetries       int           `yaml:"maxRetries"`
	ReadTimeout      time.Duration `yaml:"readTimeout"`
	SendRate         float64       `yaml:"sendRate"` // 每秒最多发送条数
	SendBurst        int           `yaml:"sendBurst"`
}

type MetricsConfig struct {
	Addr      string `yaml:"addr"` // 为空时不启动 HTTP 端点
	Namespace string `yaml:"namespace"`
}

// AlgorithmConfig 是示例算法的参数。
type AlgorithmConfig struct {
	Symbol   string        `yaml:"symbol"`
	Interval time.Duration `yaml:"interval"`
	Quantity string        `yaml:"quantity"`
}

// QuantityDecimal 返回下单数量；Validate 已保证可解析。
func (a AlgorithmConfig) QuantityDecimal() decimal.Decimal {
	q, err := decimal.NewFromString(a.Quantity)
	if err != nil {
		return decimal.Zero
	}
	return q
}

// WS 转换为 gateway.WSConfig。
func (c AppConfig) WS() gateway.WSConfig {
	host := c.Gateway.Host
	if host == "" {
		host = gateway.TestnetHost
		if c.Env == EnvMainnet {
			host = gateway.MainnetHost
		}
	}
	return gateway.WSConfig{
		Host:             host,
		Token:            c.Gateway.Token,
		Insecure:         c.Gateway.Insecure,
		DataPath:         c.Gateway.DataPath,
		ControlPath:      c.Gateway.ControlPath,
		HandshakeTimeout: c.Gateway.HandshakeTimeout,
		RetryBackoff:     c.Gateway.RetryBackoff,
		MaxRetries:       c.Gateway.MaxRetries,
		ReadTimeout:      c.Gateway.ReadTimeout,
		SendRate:         c.Gateway.SendRate,
		SendBurst:        c.Gateway.SendBurst,
	}
}

// AlgorithmSymbol 在合约表中查找算法交易的合约。
func (c AppConfig) AlgorithmSymbol(reg *market.Registry) (market.Symbol, error) {
	sym, ok := reg.ByName(c.Algorithm.Symbol)
	if !ok {
		return market.Symbol{}, fmt.Errorf("%w: %q", ErrSymbolNotFound, c.Algorithm.Symbol)
	}
	return sym, nil
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg := AppConfig{Log: logger.DefaultConfig()}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("DGTX_GATEWAY_TOKEN"); v != "" {
		cfg.Gateway.Token = v
	}
	if v := os.Getenv("DGTX_GATEWAY_HOST"); v != "" {
		cfg.Gateway.Host = v
	}
	return cfg, Validate(cfg)
}
