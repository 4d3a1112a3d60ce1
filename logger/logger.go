package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	mutex  sync.RWMutex
)

func init() {
	InitZap()
}

// InitZap builds the package logger. Writes JSON lines to stdout unless
// options say otherwise.
func InitZap(opts ...OptionFunc) {
	opt := Option{
		MultiWriter: []io.Writer{os.Stdout},
		Level:       zapcore.InfoLevel,
	}

	for _, o := range opts {
		o(&opt)
	}

	encCfg := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "message",

		LevelKey:    "level",
		EncodeLevel: zapcore.CapitalLevelEncoder,

		TimeKey:    "time",
		EncodeTime: zapcore.ISO8601TimeEncoder,

		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
	})

	var coreOpt []zapcore.Core
	for _, w := range opt.MultiWriter {
		coreOpt = append(coreOpt, zapcore.NewCore(encCfg, zapcore.AddSync(w), opt.Level))
	}
	core := zapcore.NewTee(coreOpt...)

	mutex.Lock()
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	mutex.Unlock()
}

func get() *zap.SugaredLogger {
	defer mutex.RUnlock()
	mutex.RLock()
	return logger
}

// Sync flushes buffered entries
func Sync() {
	_ = get().Sync()
}

// LogD debug
func LogD(message string) {
	get().Debug(message)
}

// LogDf debug with format
func LogDf(format string, i ...interface{}) {
	get().Debugf(format, i...)
}

// LogI info
func LogI(message string) {
	get().Info(message)
}

// LogIf info with format
func LogIf(format string, i ...interface{}) {
	get().Infof(format, i...)
}

// LogW warning
func LogW(message string) {
	get().Warn(message)
}

// LogWf warning with format
func LogWf(format string, i ...interface{}) {
	get().Warnf(format, i...)
}

// LogE error
func LogE(message string) {
	get().Error(message)
}

// LogEf error with format
func LogEf(format string, i ...interface{}) {
	get().Errorf(format, i...)
}

// LogWithFields logs message at level with structured key/value pairs
func LogWithFields(level zapcore.Level, message string, kv ...interface{}) {
	entry := get().With(kv...)
	switch level {
	case zapcore.DebugLevel:
		entry.Debug(message)
	case zapcore.WarnLevel:
		entry.Warn(message)
	case zapcore.ErrorLevel:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}
