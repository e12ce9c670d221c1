package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDebugLogger returns the diagnostic logger for the terminal client.
// The TUI owns stdout, so diagnostics go to <data_dir>/debug.log and only when
// debug is enabled. The returned close function is always safe to call.
func NewDebugLogger(dataDir string, enabled bool) (*zap.Logger, func(), error) {
	if !enabled {
		return zap.NewNop(), func() {}, nil
	}

	logPath := GetDebugLogPath(dataDir)

	// 0600 - may contain message text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return zap.NewNop(), func() {}, fmt.Errorf("could not open debug log at %s: %w", logPath, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.DebugLevel)
	logger := zap.New(core, zap.AddCaller())
	logger.Debug("debug logging started", zap.String("path", logPath))

	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}

// NewServerLogger returns a console logger for the dev backend
func NewServerLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
