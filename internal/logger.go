package internal

import (
	"fmt"
	"log"
	"time"

	"phipay/entity"
	"phipay/services"
)

// Logger implements services.LogHandler. Every record is echoed to the
// console and appended to the database log collection when a sink is set,
// forming the transaction audit trail.
type Logger struct {
	module  string
	isDebug bool
	sink    services.Database
}

func NewLogger(module string, isDebug bool, sink services.Database) *Logger {
	return &Logger{
		module:  module,
		isDebug: isDebug,
		sink:    sink,
	}
}

func (l *Logger) Debug(message string) {
	if !l.isDebug {
		return
	}
	l.write("DEBUG", message)
}

func (l *Logger) Info(message string) {
	l.write("NOTICE", message)
}

func (l *Logger) Warn(message string) {
	l.write("WARNING", message)
}

func (l *Logger) Error(message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s; %v", message, err)
	}
	l.write("ERROR", message)
}

func (l *Logger) write(level string, message string) {
	log.Printf("%s: %s: %s", l.module, level, message)
	if l.sink == nil {
		return
	}
	record := &entity.LogRecord{
		Time:    time.Now().UTC(),
		Module:  l.module,
		Level:   level,
		Message: message,
	}
	if err := l.sink.WriteLogMessage(record); err != nil {
		log.Printf("%s: ERROR: write log record: %v", l.module, err)
	}
}
