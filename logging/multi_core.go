package logging

import (
	"go.uber.org/zap/zapcore"
)

// NewMultiCore tees entries to a console writer and an optional file writer.
// The file side always encodes JSON. The console side is human-readable in
// dev mode and JSON otherwise. A nil fileWriter yields a console-only core.
//
// Example:
//
//	core := NewMultiCore(zapcore.InfoLevel, zapcore.Lock(os.Stderr), NewFileWriter("nftgen.log", DefaultFileWriterConfig()), true)
//	logger := zap.New(core)
func NewMultiCore(level zapcore.LevelEnabler, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, consoleWriter, level)

	if fileWriter == nil {
		return consoleCore
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)
	return zapcore.NewTee(consoleCore, fileCore)
}
