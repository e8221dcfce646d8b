package contract

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// InitLogger replaces the no-op logger. Verbose runs get a development logger
// writing to stderr; everything else stays silent.
func InitLogger(verbose bool) error {
	if !verbose {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	return nil
}

// Logger returns the process-wide structured logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = Logger().Sync()
}

func zapError(err error) zap.Field {
	return zap.Error(err)
}
