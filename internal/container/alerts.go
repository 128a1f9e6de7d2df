package container

import (
	"go.uber.org/zap"

	"digitex-connector/gateway"
	"digitex-connector/infrastructure/alert"
	"digitex-connector/trading"
)

// watchConnector 把断线、交易所错误与撤单拒绝转成告警。
func watchConnector(mgr *alert.Manager, agg *trading.Aggregator, log *zap.Logger) {
	send := func(err error) {
		if err != nil {
			log.Warn("send alert", zap.Error(err))
		}
	}
	agg.Signals().Subscribe(func(s gateway.Signal) {
		switch s {
		case gateway.DataDisconnected, gateway.ControlDisconnected:
			send(mgr.SendWarning("channel disconnected", map[string]interface{}{"signal": s.String()}))
		case gateway.DataReconnected, gateway.ControlReconnected:
			send(mgr.SendInfo("channel reconnected", map[string]interface{}{"signal": s.String()}))
		}
	})
	agg.ErrorReceived().Subscribe(func(e gateway.ErrorEvent) {
		send(mgr.SendError("exchange error "+e.Code.String(), map[string]interface{}{
			"market_id": e.MarketID,
			"client_id": e.ClientID.String(),
		}))
	})
	agg.OrderCancelError().Subscribe(func(e trading.CancelError) {
		send(mgr.SendWarning("cancel rejected", map[string]interface{}{
			"symbol":    e.Symbol.Name,
			"client_id": e.PrevClientID.String(),
			"code":      e.Code.String(),
		}))
	})
}
