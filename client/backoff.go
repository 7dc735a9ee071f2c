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
	"math/rand"
	"time"
)

const (
	// ExponentialBackoffInitialTimeout is the first wait of the retries
	// of the client and the root publisher.
	ExponentialBackoffInitialTimeout = 100 * time.Millisecond

	// ExponentialBackoffMaxTimeout stops the retries once reached.
	ExponentialBackoffMaxTimeout = 10 * time.Second
)

// Backoff tells a retrier how long to wait before the given attempt, and
// whether to retry at all.
type Backoff interface {
	Next(attempt int) (time.Duration, bool)
}

// ConstantBackoff always waits the same interval and never gives up. The
// retrier maxRetries bounds it.
type ConstantBackoff struct {
	interval time.Duration
}

func NewConstantBackoff(interval time.Duration) *ConstantBackoff {
	return &ConstantBackoff{interval: interval}
}

func (b *ConstantBackoff) Next(attempt int) (time.Duration, bool) {
	return b.interval, true
}

// SimpleBackoff waits the given intervals in turn and gives up once they
// are exhausted.
type SimpleBackoff struct {
	ticks []time.Duration
}

func NewSimpleBackoff(ticks ...time.Duration) *SimpleBackoff {
	return &SimpleBackoff{ticks: ticks}
}

func (b *SimpleBackoff) Next(attempt int) (time.Duration, bool) {
	if attempt < 0 || attempt >= len(b.ticks) {
		return 0, false
	}
	return b.ticks[attempt], true
}

// ExponentialBackoff doubles the wait on every attempt, with a random
// factor in [1, 2), and gives up once the wait would reach max.
type ExponentialBackoff struct {
	initial time.Duration
	max     time.Duration
}

func NewExponentialBackoff(initial, max time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{initial: initial, max: max}
}

func (b *ExponentialBackoff) Next(attempt int) (time.Duration, bool) {
	if attempt < 0 || attempt > 62 {
		return 0, false
	}
	wait := b.initial << uint(attempt)
	if wait <= 0 || wait >= b.max {
		return 0, false
	}
	wait += time.Duration(rand.Int63n(int64(wait)))
	if wait >= b.max {
		return 0, false
	}
	return wait, true
}
