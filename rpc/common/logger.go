package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

// loggerNames lists every named logger used by dComm
var loggerNames = []string{
	"transport/comm",
	"pool",
	"processing",
	"cmd",
}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// dCommLogger implements the ILogger interface with custom formatting
type dCommLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *dCommLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *dCommLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *dCommLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *dCommLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *dCommLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *dCommLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *dCommLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Mute Logger
// --------------------------------------------------------------------------

// muteLogger drops everything
type muteLogger struct{}

func (muteLogger) SetLevel(logger.LogLevel)                    {}
func (muteLogger) Debugf(format string, args ...interface{})   {}
func (muteLogger) Infof(format string, args ...interface{})    {}
func (muteLogger) Warningf(format string, args ...interface{}) {}
func (muteLogger) Errorf(format string, args ...interface{})   {}
func (muteLogger) Panicf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// NewMuteLogger returns a logger that never writes anything
func NewMuteLogger() logger.ILogger {
	return muteLogger{}
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger is the dragonboat logger factory used by dComm
func CreateLogger(pkgName string) logger.ILogger {
	return newLogger(pkgName, os.Stdout, logger.INFO)
}

// NewVerboseLogger returns a logger writing every level to stderr
func NewVerboseLogger(name string) logger.ILogger {
	return newLogger(name, os.Stderr, logger.DEBUG)
}

func newLogger(name string, w io.Writer, level logger.LogLevel) *dCommLogger {
	return &dCommLogger{
		name:   name,
		level:  level,
		logger: log.New(w, "", log.Ldate|log.Ltime),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the dComm logger factory and sets the level of all loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)

	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
