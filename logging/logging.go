// Package logging routes logrus output to the platform's native log.
package logging

import (
	"io/ioutil"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korushell/core"
)

// Priority is a native log priority, numbered like android/log.h
type Priority int

// Priorities understood by the native log
const (
	PriorityUnknown Priority = iota
	PriorityDefault
	PriorityVerbose
	PriorityDebug
	PriorityInfo
	PriorityWarn
	PriorityError
	PriorityFatal
	PrioritySilent
)

// Sink receives formatted log lines. Writes are fire and forget.
type Sink interface {
	Write(prio Priority, tag, msg string)
}

// PriorityFor maps a logrus level to a native priority
func PriorityFor(level log.Level) Priority {
	switch level {
	case log.DebugLevel:
		return PriorityDebug
	case log.InfoLevel:
		return PriorityInfo
	case log.WarnLevel:
		return PriorityWarn
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		return PriorityError
	default:
		return PriorityUnknown
	}
}

// SinkHook forwards every entry to a Sink, tagged with the application name
type SinkHook struct {
	Tag       string
	Sink      Sink
	Formatter log.Formatter
}

// Levels implements interface
func (h *SinkHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire implements interface
func (h *SinkHook) Fire(entry *log.Entry) error {
	msg := entry.Message
	if len(entry.Data) > 0 && h.Formatter != nil {
		line, err := h.Formatter.Format(entry)
		if err != nil {
			return err
		}
		msg = strings.TrimSuffix(string(line), "\n")
	}
	h.Sink.Write(PriorityFor(entry.Level), h.Tag, msg)
	return nil
}

// NewLogger creates a logger for the shell. With a sink, output goes
// only to the sink; without one it stays on logrus' default output.
func NewLogger(settings core.Settings, sink Sink) *log.Logger {
	logger := log.New()
	logger.SetLevel(log.InfoLevel)
	if settings.Validate {
		logger.SetLevel(log.DebugLevel)
	}

	if sink != nil {
		logger.SetOutput(ioutil.Discard)
		logger.AddHook(&SinkHook{
			Tag:  settings.Name,
			Sink: sink,
			Formatter: &log.TextFormatter{
				DisableColors:    true,
				DisableTimestamp: true,
			},
		})
	}
	return logger
}
