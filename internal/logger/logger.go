package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 构建并替换全局日志器
// debug 级别用开发配置（彩色控制台，带调用方，适合本地联调），
// 其余级别用生产配置（JSON 行，方便从房主设备收集后检索）
func InitLogger(logLevel string) {
	var cfg zap.Config

	switch logLevel {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level.SetLevel(zap.DebugLevel)
	case "warn":
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zap.WarnLevel)
	case "error":
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zap.ErrorLevel)
	default:
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("构建日志器失败: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}
