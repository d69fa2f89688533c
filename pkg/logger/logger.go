package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwm-statusbar/pkg/config"
	"github.com/dwm-statusbar/pkg/goid"
)

type Logger = zap.Logger

var (
	mu         sync.RWMutex
	baseLogger = zap.NewNop()
	// helperLogger 跳过 log() 与 Debug/Info 等包装函数两层调用栈
	helperLogger = baseLogger
)

const timeLayout = "2006-01-02 15:04:05.000 -07:00"

// InitLogger 初始化全局日志：控制台输出到 stderr（stdout 留给状态栏输出端），
// 配置了 Path 时额外按天切割写入 JSON 日志文件
func InitLogger(cfg *config.ZapLogConfig) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	var consoleEncoder zapcore.Encoder
	if cfg.Format == "json" {
		consoleEncoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.Path != "" {
		writer, err := newFileWriter(cfg)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), zapcore.AddSync(writer), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SetLogger(l)
	return l, nil
}

func newFileWriter(cfg *config.ZapLogConfig) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", cfg.Path, err)
	}
	opts := []rotatelogs.Option{
		rotatelogs.WithLinkName(filepath.Join(cfg.Path, "statusbar.log")),
		rotatelogs.WithRotationTime(24 * time.Hour),
	}
	if cfg.MaxAge > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour))
	}
	writer, err := rotatelogs.New(filepath.Join(cfg.Path, "statusbar-%Y%m%d.log"), opts...)
	if err != nil {
		return nil, fmt.Errorf("open rotate logs: %w", err)
	}
	return writer, nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "dbg", "debug":
		return zapcore.DebugLevel
	case "war", "warn":
		return zapcore.WarnLevel
	case "err", "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.ConsoleSeparator = " "
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("\033[34m%s\033[0m", t.Format(timeLayout)))
	}
	// Caller 两级路径
	encCfg.EncodeCaller = func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		rel := filepath.Join(filepath.Base(filepath.Dir(c.File)), filepath.Base(c.File))
		enc.AppendString(fmt.Sprintf("%s:%d", rel, c.Line))
	}
	return encCfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return encCfg
}

// SetLogger 替换全局日志实例（测试中可传入 observer）
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	baseLogger = l
	helperLogger = l.WithOptions(zap.AddCallerSkip(2))
}

// GetGlobalLogger 返回全局日志实例，未初始化时为 Nop
func GetGlobalLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger
}

func log(level zapcore.Level, msg string, fields ...zap.Field) {
	mu.RLock()
	l := helperLogger
	mu.RUnlock()

	if ce := l.Check(level, msg); ce != nil {
		ce.Write(append(fields, zap.String("goid", goid.String()))...)
	}
}

func Debug(msg string, fields ...zap.Field) { log(zapcore.DebugLevel, msg, fields...) }
func Info(msg string, fields ...zap.Field)  { log(zapcore.InfoLevel, msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log(zapcore.WarnLevel, msg, fields...) }
func Error(msg string, fields ...zap.Field) { log(zapcore.ErrorLevel, msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { log(zapcore.FatalLevel, msg, fields...) }

// Sync 刷盘
func Sync() error {
	return GetGlobalLogger().Sync()
}
