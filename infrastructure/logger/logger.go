package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 封装zap日志器，提供结构化日志功能
type Logger struct {
	*zap.Logger
	config  Config
	level   zap.AtomicLevel
	closers []func() error
}

// Config 日志配置
type Config struct {
	Level      string   `yaml:"level"`       // debug, info, warn, error
	Outputs    []string `yaml:"outputs"`     // stdout, file
	OutputFile string   `yaml:"output_file"` // 日志文件路径
	ErrorFile  string   `yaml:"error_file"`  // 错误日志单独文件
	Format     string   `yaml:"format"`      // json 或 console
	MaxSize    int      `yaml:"max_size"`    // 单个日志文件最大MB
	MaxBackups int      `yaml:"max_backups"` // 保留的旧日志文件数
	MaxAge     int      `yaml:"max_age"`     // 保留天数
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Outputs:    []string{"stdout"},
		Format:     "json",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

// New 创建新的Logger实例
func New(cfg Config) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}
	level := zap.NewAtomicLevelAt(lvl)

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l := &Logger{config: cfg, level: level}
	cores := []zapcore.Core{}

	// 标准输出
	if contains(cfg.Outputs, "stdout") {
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	// 文件输出，按大小轮转
	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		w, err := l.rotating(cfg.OutputFile)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), w, level))
	}

	// 错误日志单独文件
	if cfg.ErrorFile != "" {
		w, err := l.rotating(cfg.ErrorFile)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), w, zapcore.ErrorLevel))
	}

	core := zapcore.NewTee(cores...)
	l.Logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return l, nil
}

func (l *Logger) rotating(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    l.config.MaxSize,
		MaxBackups: l.config.MaxBackups,
		MaxAge:     l.config.MaxAge,
	}
	l.closers = append(l.closers, w.Close)
	return zapcore.AddSync(w), nil
}

// SetLevel 运行时修改日志级别，配置热更新时调用。
func (l *Logger) SetLevel(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", level, err)
	}
	l.level.SetLevel(lvl)
	return nil
}

// Level 返回当前日志级别。
func (l *Logger) Level() zapcore.Level { return l.level.Level() }

// WithFields 添加字段返回新的logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(zapFields...),
		config: l.config,
		level:  l.level,
	}
}

// LogOrder 记录订单相关事件
func (l *Logger) LogOrder(event string, orderID string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event"] = event
	fields["order_id"] = orderID
	fields["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	l.Info("order_event", zapFields...)
}

// LogTrade 记录成交事件
func (l *Logger) LogTrade(event string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event"] = event
	fields["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	l.Info("trade_event", zapFields...)
}

// LogError 记录错误并附带上下文
func (l *Logger) LogError(err error, context map[string]interface{}) {
	if context == nil {
		context = make(map[string]interface{})
	}
	context["error"] = err.Error()
	context["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	zapFields := make([]zap.Field, 0, len(context))
	for k, v := range context {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	l.Error("error_event", zapFields...)
}

// Close 刷新缓冲并关闭日志文件
func (l *Logger) Close() error {
	_ = l.Sync() // stdout 上 Sync 可能返回 EINVAL
	var first error
	for _, c := range l.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
