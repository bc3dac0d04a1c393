package yunheiscot

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 100
	logMaxBackups = 7
	logMaxAgeDays = 30
)

// SLogger is the yunheiscot internal logging interface
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger *zap.SugaredLogger
	debug  bool
}

// NewSLogger creates a new yunheiscot logger provided with a zap sugared logger and a debug flag
func NewSLogger(logger *zap.SugaredLogger, debug bool) SLogger {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = logger
	return sl
}

// Debugf logs a debug line after checking if the configuration is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.debug {
		sl.logger.Debugf(format, v...)
	}
}

// Printf logs a line at info level
func (sl *sLogger) Printf(format string, v ...interface{}) {
	sl.logger.Infof(format, v...)
}

// NewZapLogger builds the zap logger backing an SLogger. Output goes to stdout unless logFile is set,
// in which case it goes to a size-rotated file
func NewZapLogger(debug bool, logFile string) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if logFile == "" {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
		return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), w, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}
