package logger

import (
	"log"
	"os"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
}

// NewLogger creates a logger whose level is taken from the LOG_LEVEL
// environment variable, defaulting to INFO.
func NewLogger() *defaultLogger {
	level := INFO
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		level = DEBUG
	case "WARNING":
		level = WARNING
	case "ERROR":
		level = ERROR
	case "SILENCE":
		level = SILENCE
	}

	return &defaultLogger{level: level}
}

func NewLoggerWithLevel(level int) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) printf(level int, tag, msg string, a ...any) {
	if l.level <= level {
		log.Printf(tag+msg+"\n", a...)
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.printf(DEBUG, "DEBUG: ", msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.printf(INFO, "INFO: ", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.printf(WARNING, "WARN: ", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.printf(ERROR, "ERROR: ", msg, a...)
}
