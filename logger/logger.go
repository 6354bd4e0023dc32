// Package logger holds the process-wide zap logger. Components receive a
// named child of Logger; tests pass zaptest loggers directly.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger, a no-op until Initialize runs.
var Logger = zap.NewNop().Sugar()

// Initialize replaces Logger. jsonOutput selects zap's production JSON
// encoder; otherwise the minimal console encoder is used. Both write to
// stderr so stdout stays free for results. verbosity is the -v count.
func Initialize(jsonOutput bool, verbosity int) error {
	zapLogger, err := build(jsonOutput, VerbosityToLevel(verbosity))
	if err != nil {
		return err
	}
	Logger = zapLogger.Sugar()
	return nil
}

func build(jsonOutput bool, level zapcore.Level) (*zap.Logger, error) {
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		return config.Build()
	}
	core := zapcore.NewCore(newMinimalEncoder(), zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	_ = Logger.Sync()
}
