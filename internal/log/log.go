// Package log provides centralized logging using zap.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger. When file is non-empty, log
// output additionally goes to that file with rotation.
func Init(debug bool, file string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	if file != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		})
		enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
		fileCore := zapcore.NewCore(enc, rotated, cfg.Level)
		zapLogger = zapLogger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

// GetSugaredLogger returns the sugared logger instance.
func GetSugaredLogger() *zap.SugaredLogger {
	if log == nil {
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		log.Sync()
	}
}

func Debug(args ...interface{})                       { GetSugaredLogger().Debug(args...) }
func Debugf(template string, args ...interface{})     { GetSugaredLogger().Debugf(template, args...) }
func Debugw(msg string, keysAndValues ...interface{}) { GetSugaredLogger().Debugw(msg, keysAndValues...) }
func Info(args ...interface{})                        { GetSugaredLogger().Info(args...) }
func Infof(template string, args ...interface{})      { GetSugaredLogger().Infof(template, args...) }
func Infow(msg string, keysAndValues ...interface{})  { GetSugaredLogger().Infow(msg, keysAndValues...) }
func Warn(args ...interface{})                        { GetSugaredLogger().Warn(args...) }
func Warnf(template string, args ...interface{})      { GetSugaredLogger().Warnf(template, args...) }
func Error(args ...interface{})                       { GetSugaredLogger().Error(args...) }
func Errorf(template string, args ...interface{})     { GetSugaredLogger().Errorf(template, args...) }
func Errorw(msg string, keysAndValues ...interface{}) { GetSugaredLogger().Errorw(msg, keysAndValues...) }

func Fatal(args ...interface{}) {
	GetSugaredLogger().Fatal(args...)
	os.Exit(1)
}

func Fatalf(template string, args ...interface{}) {
	GetSugaredLogger().Fatalf(template, args...)
	os.Exit(1)
}
