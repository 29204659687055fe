package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global   = zap.NewNop()
	globalMu sync.RWMutex
)

// New 创建 zap Logger
// env=production 输出 JSON，其余环境输出彩色控制台格式
func New(level, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// SetGlobal 设置进程级 Logger
func SetGlobal(l *zap.Logger) {
	if l == nil {
		return
	}
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// L 获取进程级 Logger，未初始化时返回 Nop
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}
