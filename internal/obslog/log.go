// Package obslog provides the package-level structured logger shared by the
// rest of this module. Every package that needs to log imports obslog rather
// than constructing its own *zap.Logger, so log level and output format stay
// consistent across the coordinator, the mapping loader, and the HTTP servers.
package obslog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// Set replaces the global logger, which otherwise stays the production
// default built in init.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

// L returns the current sugared logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugw(msg string, kv ...interface{}) { L().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { L().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { L().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { L().Errorw(msg, kv...) }
