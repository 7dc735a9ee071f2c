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

package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConstantBackoff(t *testing.T) {
	b := NewConstantBackoff(time.Second)
	for attempt := 0; attempt < 10; attempt++ {
		d, ok := b.Next(attempt)
		require.True(t, ok)
		require.Equal(t, time.Second, d)
	}
}

func TestSimpleBackoff(t *testing.T) {
	b := NewSimpleBackoff(time.Millisecond, 2*time.Millisecond, 7*time.Millisecond)

	testCases := []struct {
		attempt  int
		duration time.Duration
		goahead  bool
	}{
		{0, time.Millisecond, true},
		{1, 2 * time.Millisecond, true},
		{2, 7 * time.Millisecond, true},
		{3, 0, false},
		{-1, 0, false},
	}

	for _, c := range testCases {
		d, ok := b.Next(c.attempt)
		require.Equal(t, c.goahead, ok, "attempt %d", c.attempt)
		require.Equal(t, c.duration, d, "attempt %d", c.attempt)
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := NewExponentialBackoff(ExponentialBackoffInitialTimeout, ExponentialBackoffMaxTimeout)

	for attempt := 0; attempt < 6; attempt++ {
		d, ok := b.Next(attempt)
		require.True(t, ok, "attempt %d", attempt)
		base := ExponentialBackoffInitialTimeout << uint(attempt)
		require.True(t, d >= base && d < 2*base, "attempt %d waits %s", attempt, d)
	}

	// 100ms << 7 is 12.8s, past the maximum
	_, ok := b.Next(7)
	require.False(t, ok)
	_, ok = b.Next(100)
	require.False(t, ok)
}
