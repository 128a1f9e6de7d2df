package alert

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogChannel 把告警写入 zap 日志。
type LogChannel struct {
	log  *zap.Logger
	name string
}

// NewLogChannel 创建日志告警通道
func NewLogChannel(name string, log *zap.Logger) *LogChannel {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogChannel{log: log, name: name}
}

// Send 按告警级别写日志
func (c *LogChannel) Send(alert Alert) error {
	fields := make([]zap.Field, 0, len(alert.Fields)+2)
	fields = append(fields, zap.Stringer("alert_level", alert.Level), zap.Time("alert_ts", alert.Timestamp))
	for k, v := range alert.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	lvl := zapcore.InfoLevel
	switch alert.Level {
	case LevelWarning:
		lvl = zapcore.WarnLevel
	case LevelError, LevelCritical:
		lvl = zapcore.ErrorLevel
	}
	if ce := c.log.Check(lvl, alert.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (c *LogChannel) Name() string { return c.name }
