package market

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Symbol 描述交易所上的一个合约，按值比较。
type Symbol struct {
	MarketID       uint32
	Name           string
	PriceStep      decimal.Decimal
	QuantityStep   decimal.Decimal
	CurrencyPairID uint32
}

// Equal 按值比较两个 Symbol。
func (s Symbol) Equal(o Symbol) bool {
	return s.MarketID == o.MarketID &&
		s.Name == o.Name &&
		s.PriceStep.Equal(o.PriceStep) &&
		s.QuantityStep.Equal(o.QuantityStep) &&
		s.CurrencyPairID == o.CurrencyPairID
}

func (s Symbol) String() string { return s.Name }

// RoundToTick 把价格四舍五入到最近的 tick（恰好一半时向上）。
func (s Symbol) RoundToTick(price decimal.Decimal) decimal.Decimal {
	if !s.PriceStep.IsPositive() {
		return price
	}
	rem := price.Mod(s.PriceStep)
	adjusted := price.Sub(rem)
	if rem.GreaterThanOrEqual(s.PriceStep.Div(decimal.NewFromInt(2))) {
		adjusted = adjusted.Add(s.PriceStep)
	}
	return adjusted
}

// Registry 是启动时加载的只读合约表。
type Registry struct {
	list   []Symbol
	byName map[string]Symbol
	byID   map[uint32]Symbol
}

func NewRegistry(symbols []Symbol) *Registry {
	r := &Registry{
		list:   append([]Symbol(nil), symbols...),
		byName: make(map[string]Symbol, len(symbols)),
		byID:   make(map[uint32]Symbol, len(symbols)),
	}
	for _, s := range symbols {
		r.byName[s.Name] = s
		r.byID[s.MarketID] = s
	}
	return r
}

func (r *Registry) ByName(name string) (Symbol, bool) {
	s, ok := r.byName[name]
	return s, ok
}

func (r *Registry) ByMarketID(id uint32) (Symbol, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// All 返回全部合约的副本。
func (r *Registry) All() []Symbol { return append([]Symbol(nil), r.list...) }

func (r *Registry) Len() int { return len(r.list) }

type symbolFile struct {
	Symbols []struct {
		MarketID       uint32 `yaml:"marketId"`
		Name           string `yaml:"name"`
		PriceStep      string `yaml:"priceStep"`
		QuantityStep   string `yaml:"quantityStep"`
		CurrencyPairID uint32 `yaml:"currencyPairId"`
	} `yaml:"symbols"`
}

// LoadRegistry 从 YAML（或 JSON）文件加载合约表；文件不存在时返回空表。
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewRegistry(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}
	var f symbolFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse symbols: %w", err)
	}
	symbols := make([]Symbol, 0, len(f.Symbols))
	for i, s := range f.Symbols {
		if s.Name == "" {
			return nil, fmt.Errorf("symbol #%d: name is required", i)
		}
		step, err := decimal.NewFromString(s.PriceStep)
		if err != nil || !step.IsPositive() {
			return nil, fmt.Errorf("symbol %s priceStep must be > 0", s.Name)
		}
		qstep, err := decimal.NewFromString(s.QuantityStep)
		if err != nil || !qstep.IsPositive() {
			return nil, fmt.Errorf("symbol %s quantityStep must be > 0", s.Name)
		}
		symbols = append(symbols, Symbol{
			MarketID:       s.MarketID,
			Name:           s.Name,
			PriceStep:      step,
			QuantityStep:   qstep,
			CurrencyPairID: s.CurrencyPairID,
		})
	}
	return NewRegistry(symbols), nil
}
