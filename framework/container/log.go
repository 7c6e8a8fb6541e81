package container

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger sets the logger used for container diagnostics. Construction,
// scope entry/exit and teardown are logged at debug level. A nil logger
// disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named("container"))
}

func log() *zap.Logger { return logger.Load() }
