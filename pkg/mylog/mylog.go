package mylog

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogCfg struct {
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"`
	FilePath   string `yaml:"file-path"`
	MaxSizeMb  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
}

var (
	appLogger zerolog.Logger

	mu            sync.RWMutex
	moduleLoggers = make(map[string]zerolog.Logger, 16)

	initOnce sync.Once
)

// Init 初始化应用日志, 仅第一次调用生效
func Init(appName string, cfg LogCfg) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var writers []io.Writer
		if cfg.Console {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"})
		}

		if cfg.FilePath != "" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSizeMb,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}

		if len(writers) == 0 {
			writers = append(writers, os.Stdout)
		}

		appLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(parseLevel(cfg.Level)).
			With().
			Timestamp().
			Str("app", appName).
			Logger()
	})
}

func AppLogger() zerolog.Logger {
	return appLogger
}

func AddModuleLogger(name string) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := moduleLoggers[name]; ok {
		return
	}

	moduleLoggers[name] = appLogger.With().Str("module", name).Logger()
}

func GetLogger(name string) zerolog.Logger {
	mu.RLock()
	lg, ok := moduleLoggers[name]
	mu.RUnlock()

	if ok {
		return lg
	}

	return appLogger
}

// DecoLogger 带模块名装饰的logger
type DecoLogger struct {
	lg zerolog.Logger
}

func NewDecoLogger(name string) *DecoLogger {
	return &DecoLogger{
		lg: appLogger.With().Str("module", name).Logger(),
	}
}

func (dl *DecoLogger) GetLogger() zerolog.Logger {
	return dl.lg
}

func (dl *DecoLogger) Trace() *zerolog.Event {
	return dl.lg.Trace()
}

func (dl *DecoLogger) Debug() *zerolog.Event {
	return dl.lg.Debug()
}

func (dl *DecoLogger) Info() *zerolog.Event {
	return dl.lg.Info()
}

func (dl *DecoLogger) Warn() *zerolog.Event {
	return dl.lg.Warn()
}

func (dl *DecoLogger) Error() *zerolog.Event {
	return dl.lg.Error()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
