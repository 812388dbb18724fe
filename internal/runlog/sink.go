package runlog

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shoptest/internal/domain"
)

// Record levels map onto zap levels. CRITICAL uses DPanic, which only panics
// on development loggers; the sink is never built as one.
var zapLevels = map[domain.LogLevel]zapcore.Level{
	domain.LevelDebug:    zapcore.DebugLevel,
	domain.LevelInfo:     zapcore.InfoLevel,
	domain.LevelWarning:  zapcore.WarnLevel,
	domain.LevelError:    zapcore.ErrorLevel,
	domain.LevelCritical: zapcore.DPanicLevel,
}

func toZapLevel(level domain.LogLevel) (zapcore.Level, bool) {
	zl, ok := zapLevels[level]
	return zl, ok
}

// encodeLevel writes the record level name instead of zap's own names
// (WARN, DPANIC).
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	for level, zl := range zapLevels {
		if zl == l {
			enc.AppendString(level.String())
			return
		}
	}
	enc.AppendString(l.CapitalString())
}

// newSink builds a logger writing "<LEVEL> - <message>" lines to w.
func newSink(w io.Writer, minLevel domain.LogLevel) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      encodeLevel,
		ConsoleSeparator: " - ",
		LineEnding:       zapcore.DefaultLineEnding,
	})
	threshold, ok := toZapLevel(minLevel)
	if !ok {
		threshold = zapcore.DebugLevel
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), threshold)
	return zap.New(core)
}
