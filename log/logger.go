/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package log implements a leveled logger with named sub-loggers and an
// adapter for packages that expect the standard library logger.
package log

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level uint32

const (
	// NotSet level is used to indicate that no level has been set
	// and allow for a default to be used.
	NotSet Level = iota

	// Off is intended to avoid tracing any action.
	Off

	// Fatal designates errors that abort the process, e.g. a record set
	// that cannot be committed into a tree.
	Fatal

	// Error designates failures that still allow the service to run,
	// e.g. a storage backend that fails to answer a lookup.
	Error

	// Warn designates potentially harmful situations.
	Warn

	// Info designates coarse-grained progress messages.
	Info

	// Debug designates fine-grained events useful to debug the service.
	Debug

	// Trace designates the finest-grained events.
	Trace
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// LevelFromString returns a Level type for the named log level, or
// "NotSet" if the level passed as argument is invalid.
func LevelFromString(level string) Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "off", "silent":
		return Off
	case "fatal":
		return Fatal
	case "error":
		return Error
	case "warn":
		return Warn
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	default:
		return NotSet
	}
}

type Logger interface {
	Trace(msg string)
	Tracef(format string, args ...interface{})
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	Fatal(msg string)
	Fatalf(format string, args ...interface{})

	// Named creates a logger that will prepend the given name on front of
	// all messages. A previously set name is kept and the new one appended.
	Named(name string) Logger

	// WithLevel returns a copy of the logger with another threshold.
	WithLevel(level Level) Logger

	// GetLevel returns the threshold of the logger.
	GetLevel() Level

	// StdLogger returns a logger implementation that conforms to the
	// stdlib log.Logger interface, e.g. for http.Server.ErrorLog.
	StdLogger(opts *StdLoggerOptions) *log.Logger
}

// LoggerOptions can be used to configure a new logger.
type LoggerOptions struct {
	// Name of the subsystem to prefix logs with.
	Name string

	// Level is the threshold for the logger. Any log trace less
	// severe is suppressed.
	Level Level

	// Output is the writer implementation where to write logs to.
	// If nil, defaults to DefaultOutput.
	Output io.Writer

	// TimeFormat is the time format to use instead of the default one.
	TimeFormat string

	// IncludeLocation includes file and line information in each log line.
	IncludeLocation bool

	// Mutex is an optional mutex pointer in case Output is shared.
	Mutex *sync.Mutex
}

// StdLoggerOptions can be used to configure a new standard logger.
type StdLoggerOptions struct {
	// InferLevels parses prefixes like [ERROR] or [DEBUG] and re-emits the
	// line at that level, stripping the prefix.
	InferLevels bool

	// ForceLevel forces all output from the standard logger to be at
	// the specified level. If set, this overrides InferLevels.
	ForceLevel Level
}

// New returns a logger configured with the given options.
func New(opts *LoggerOptions) Logger {
	if opts == nil {
		opts = &LoggerOptions{}
	}

	output := opts.Output
	if output == nil {
		output = DefaultOutput
	}

	level := opts.Level
	if level == NotSet {
		level = DefaultLevel
	}

	mutex := opts.Mutex
	if mutex == nil {
		mutex = new(sync.Mutex)
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	return &leveledLogger{
		name:       opts.Name,
		caller:     opts.IncludeLocation,
		timeFormat: timeFormat,
		level:      level,
		mutex:      mutex,
		out:        output,
	}
}
