package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// GormLogger sends GORM's SQL trace to zap. A missing row is the normal first-access path for
// carts, so it is never logged as a failure.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
}

func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{log: log.Named("gorm"), level: level}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{log: l.log, level: level}
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Info, msg, data)
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Warn, msg, data)
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Error, msg, data)
}

func (l *GormLogger) printf(at gormlogger.LogLevel, msg string, data []any) {
	if l.level < at {
		return
	}
	s := l.log.Sugar()
	switch at {
	case gormlogger.Error:
		s.Errorf(msg, data...)
	case gormlogger.Warn:
		s.Warnf(msg, data...)
	default:
		s.Infof(msg, data...)
	}
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var msg string
	var write func(string, ...zap.Field)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		msg, write = "query failed", l.log.Error
	case elapsed > slowQuery && l.level >= gormlogger.Warn:
		msg, write = "slow query", l.log.Warn
	case l.level >= gormlogger.Info:
		msg, write = "query", l.log.Debug
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	write(msg, fields...)
}
