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
	"strings"
)

// stdLogAdapter provides an io.Writer that can be used with the standard
// library log package, e.g. as the ErrorLog of an http.Server.
type stdLogAdapter struct {
	log         Logger
	inferLevels bool
	forceLevel  Level
}

func (s *stdLogAdapter) Write(data []byte) (int, error) {
	str := string(bytes.TrimRight(data, " \t\n"))

	level := Info
	switch {
	case s.forceLevel != NotSet:
		// strip any level prefix since we are forcing the level
		_, str = s.pickLevel(str)
		level = s.forceLevel
	case s.inferLevels:
		level, str = s.pickLevel(str)
	}

	switch level {
	case Off:
	case Trace:
		s.log.Trace(str)
	case Debug:
		s.log.Debug(str)
	case Warn:
		s.log.Warn(str)
	case Error, Fatal:
		s.log.Error(str)
	default:
		s.log.Info(str)
	}

	return len(data), nil
}

// pickLevel detects the level of a line from its bracketed prefix.
func (s *stdLogAdapter) pickLevel(str string) (Level, string) {
	switch {
	case strings.HasPrefix(str, "[TRACE]"):
		return Trace, strings.TrimSpace(str[7:])
	case strings.HasPrefix(str, "[DEBUG]"):
		return Debug, strings.TrimSpace(str[7:])
	case strings.HasPrefix(str, "[INFO]"):
		return Info, strings.TrimSpace(str[6:])
	case strings.HasPrefix(str, "[WARN]"):
		return Warn, strings.TrimSpace(str[6:])
	case strings.HasPrefix(str, "[ERROR]"):
		return Error, strings.TrimSpace(str[7:])
	case strings.HasPrefix(str, "[ERR]"):
		return Error, strings.TrimSpace(str[5:])
	default:
		return Info, str
	}
}
