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

package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	brackets = map[Level]string{
		Trace: "[TRACE]",
		Debug: "[DEBUG]",
		Info:  "[INFO] ",
		Warn:  "[WARN] ",
		Error: "[ERROR]",
		Fatal: "[FATAL]",
	}

	// To allow mocking we require a switchable variable.
	osExit = os.Exit
)

// leveledLogger writes plain text lines with the format:
//	<time> <[LEVEL]> [<file:line>:] [<name>: ]<msg>
type leveledLogger struct {
	name       string
	caller     bool
	timeFormat string
	level      Level

	// This is a pointer so that it's shared by any derived loggers, since
	// those derived loggers share the output as well.
	mutex *sync.Mutex
	out   io.Writer
}

func (l *leveledLogger) Named(name string) Logger {
	sub := *l
	if sub.name != "" {
		sub.name = sub.name + "." + name
	} else {
		sub.name = name
	}
	return &sub
}

func (l *leveledLogger) WithLevel(level Level) Logger {
	sub := *l
	sub.level = level
	return &sub
}

func (l *leveledLogger) GetLevel() Level {
	return l.level
}

func (l *leveledLogger) StdLogger(opts *StdLoggerOptions) *log.Logger {
	if opts == nil {
		opts = &StdLoggerOptions{}
	}
	adapter := &stdLogAdapter{
		log:         l,
		inferLevels: opts.InferLevels,
		forceLevel:  opts.ForceLevel,
	}
	return log.New(adapter, "", 0)
}

// enabled reports whether messages at the given level pass the threshold.
// Off has the lowest rank so nothing but Off itself is below it.
func (l *leveledLogger) enabled(level Level) bool {
	return l.level != Off && level <= l.level
}

func (l *leveledLogger) log(level Level, msg string) {
	if !l.enabled(level) {
		return
	}
	l.write(level, msg)
}

func (l *leveledLogger) logf(level Level, format string, args ...interface{}) {
	if !l.enabled(level) {
		return
	}
	l.write(level, fmt.Sprintf(format, args...))
}

func (l *leveledLogger) write(level Level, msg string) {
	tm := time.Now()

	var buf bytes.Buffer
	buf.WriteString(tm.Format(l.timeFormat))
	buf.WriteByte(' ')
	buf.WriteString(levelToBracket(level))

	if l.caller {
		// write <- log{f} <- Info{f} <- caller
		if _, file, line, ok := runtime.Caller(3); ok {
			buf.WriteByte(' ')
			buf.WriteString(trimCallerPath(file))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(line))
			buf.WriteByte(':')
		}
	}

	buf.WriteByte(' ')
	if l.name != "" {
		buf.WriteString(l.name)
		buf.WriteString(": ")
	}
	buf.WriteString(msg)
	buf.WriteByte('\n')

	l.mutex.Lock()
	defer l.mutex.Unlock()
	_, _ = l.out.Write(buf.Bytes())
}

// trimCallerPath returns only the last 2 segments of the path.
func trimCallerPath(path string) string {
	var idx int
	if idx = strings.LastIndexByte(path, '/'); idx == -1 {
		return path
	}
	if idx = strings.LastIndexByte(path[:idx], '/'); idx == -1 {
		return path
	}
	return path[idx+1:]
}

func levelToBracket(level Level) string {
	s, ok := brackets[level]
	if !ok {
		s = "[?????]"
	}
	return s
}

func (l *leveledLogger) Trace(msg string) {
	l.log(Trace, msg)
}

func (l *leveledLogger) Tracef(format string, args ...interface{}) {
	l.logf(Trace, format, args...)
}

func (l *leveledLogger) Debug(msg string) {
	l.log(Debug, msg)
}

func (l *leveledLogger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, format, args...)
}

func (l *leveledLogger) Info(msg string) {
	l.log(Info, msg)
}

func (l *leveledLogger) Infof(format string, args ...interface{}) {
	l.logf(Info, format, args...)
}

func (l *leveledLogger) Warn(msg string) {
	l.log(Warn, msg)
}

func (l *leveledLogger) Warnf(format string, args ...interface{}) {
	l.logf(Warn, format, args...)
}

func (l *leveledLogger) Error(msg string) {
	l.log(Error, msg)
}

func (l *leveledLogger) Errorf(format string, args ...interface{}) {
	l.logf(Error, format, args...)
}

// Fatal logs the message and exits, even if the logger is silenced.
func (l *leveledLogger) Fatal(msg string) {
	l.log(Fatal, msg)
	osExit(1)
}

func (l *leveledLogger) Fatalf(format string, args ...interface{}) {
	l.logf(Fatal, format, args...)
	osExit(1)
}
