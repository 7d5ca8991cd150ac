package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// New returns a singleton zap.Logger configured for structured logging.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		lg, err = cfg.Build()
	})

	return lg, err
}

// WithContext attaches request scoped fields to the logger.
func WithContext(ctx context.Context) *zap.Logger {
	if lg == nil {
		lz, _ := zap.NewDevelopment()
		return lz
	}

	if ctx == nil {
		return lg
	}

	return lg.With(zap.String("request_id", requestIDFromContext(ctx)))
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return val
	}
	return ""
}

// RequestIDKey is used to store a request identifier on the context.
type RequestIDKey struct{}

// MaskSecret redacts generated passwords and other sensitive strings before
// they reach a log line. The value is replaced entirely; nothing of the
// original survives.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// MaskIP hides the host portion of a client address in access logs.
// "192.0.2.17" -> "192.0.2.x", "2001:db8::1" -> "2001:db8::x"
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}
	if idx := strings.LastIndex(ip, ":"); idx >= 0 && strings.Count(ip, ":") > 1 {
		return ip[:idx+1] + "x"
	}
	if idx := strings.LastIndex(ip, "."); idx >= 0 {
		return ip[:idx+1] + "x"
	}
	return "***"
}

// MaskSeed masks a text seed, keeping the first two characters so operators
// can correlate runs without exposing the full provisioning input.
// Example: "alice@example.com" -> "al***"
func MaskSeed(seed string) string {
	if seed == "" {
		return ""
	}
	if len(seed) <= 2 {
		return "***"
	}
	return seed[:2] + "***"
}
