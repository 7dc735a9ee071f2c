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
	"io"
	"os"
	"sync"
)

var (
	defLogger Logger
	defLock   sync.Mutex

	// DefaultTimeFormat is the time format used when none is given.
	DefaultTimeFormat = "2006-01-02T15:04:05.000Z0700"

	// DefaultOutput is used as the default log output.
	DefaultOutput io.Writer = os.Stderr

	// DefaultLevel is used as the default log level.
	DefaultLevel = Info
)

// Default returns the process-wide logger, creating it with the default
// options on first use.
func Default() Logger {
	defLock.Lock()
	defer defLock.Unlock()
	if defLogger == nil {
		defLogger = New(&LoggerOptions{
			Level:  DefaultLevel,
			Output: DefaultOutput,
		})
	}
	return defLogger
}

// L is a short alias of Default.
func L() Logger {
	return Default()
}

// SetDefault replaces the process-wide logger and returns the previous one.
func SetDefault(log Logger) Logger {
	defLock.Lock()
	defer defLock.Unlock()
	prev := defLogger
	defLogger = log
	return prev
}

// SetLogger replaces the process-wide logger with a named one at the given
// level. Unknown levels fall back to Info.
func SetLogger(namespace, level string) Logger {
	lv := LevelFromString(level)
	l := New(&LoggerOptions{
		Name:  namespace,
		Level: lv,
	})
	if lv == NotSet {
		l.Warnf("Incorrect level of verbosity (%v) fallback to info", level)
	}
	SetDefault(l)
	return l
}

// Formatted shortcuts writing to the default logger.

func Tracef(format string, args ...interface{}) { Default().Tracef(format, args...) }
func Debugf(format string, args ...interface{}) { Default().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Default().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Default().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Default().Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { Default().Fatalf(format, args...) }
