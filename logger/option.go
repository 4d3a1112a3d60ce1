package logger

import (
	"io"

	"go.uber.org/zap/zapcore"
)

type (
	Option struct {
		MultiWriter []io.Writer
		Level       zapcore.Level
	}

	OptionFunc func(*Option)
)

// OptionAddWriter appends w to the log writers
func OptionAddWriter(w io.Writer) OptionFunc {
	return func(o *Option) {
		o.MultiWriter = append(o.MultiWriter, w)
	}
}

// OptionSetWriter overrides every log writer
func OptionSetWriter(w ...io.Writer) OptionFunc {
	return func(o *Option) {
		o.MultiWriter = w
	}
}

func OptionSetLevel(level zapcore.Level) OptionFunc {
	return func(o *Option) {
		o.Level = level
	}
}
