package gateway

// Metrics 是网关层用到的指标接口，由 infrastructure/monitor 实现。
type Metrics interface {
	RecordWSConnection(channel string)
	RecordWSDisconnect(channel string)
	SetChannelUp(channel string, up bool)
	RecordMessage(kind string)
	RecordDecodeError()
	RecordExchangeError(code string)
	RecordSend(kind string, ok bool)
	ObserveDispatch(seconds float64)
}

// NopMetrics 丢弃所有指标。
type NopMetrics struct{}

func (NopMetrics) RecordWSConnection(string)  {}
func (NopMetrics) RecordWSDisconnect(string)  {}
func (NopMetrics) SetChannelUp(string, bool)  {}
func (NopMetrics) RecordMessage(string)       {}
func (NopMetrics) RecordDecodeError()         {}
func (NopMetrics) RecordExchangeError(string) {}
func (NopMetrics) RecordSend(string, bool)    {}
func (NopMetrics) ObserveDispatch(float64)    {}
