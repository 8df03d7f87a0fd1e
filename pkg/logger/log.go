package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewLogger пишет в stdout и, если указан path, дублирует вывод в файл.
func NewLogger(level, path string) *zap.Logger {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomicLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	outputs := []string{"stdout"}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			outputs = append(outputs, path)
		}
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            atomicLevel,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
