// Package logger wraps a zap sugared logger shared by the server and the CLI.
package logger

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	slogger = zap.NewNop().Sugar()
)

// Init builds the process logger. Development mode writes console output with
// caller info; otherwise JSON.
func Init(level string, development bool) error {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(l.Sugar())
	return nil
}

// Set replaces the process logger; tests use it with zaptest/observer.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	slogger = l
}

func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

func Sync() { _ = L().Sync() }

func Debug(msg string, keysAndValues ...interface{}) { L().Debugw(msg, keysAndValues...) }
func Info(msg string, keysAndValues ...interface{})  { L().Infow(msg, keysAndValues...) }
func Warn(msg string, keysAndValues ...interface{})  { L().Warnw(msg, keysAndValues...) }
func Error(msg string, keysAndValues ...interface{}) { L().Errorw(msg, keysAndValues...) }

// GinMiddleware logs each request after it completes.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if uid := c.GetString("user_uid"); uid != "" {
			kv = append(kv, "uid", uid)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= 500:
			Error("request", kv...)
		case c.Writer.Status() >= 400:
			Warn("request", kv...)
		default:
			Info("request", kv...)
		}
	}
}
