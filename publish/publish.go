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

// Package publish pushes signed roots to external snapshot stores.
package publish

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/bbva/reserves/client"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/metrics"
	"github.com/bbva/reserves/protocol"
)

// RootsPath is the path of the stores endpoint that receives signed roots.
const RootsPath = "/roots"

type Config struct {
	Client     *fasthttp.Client
	SendTo     []string
	Timeout    time.Duration
	MaxRetries int
	Backoff    client.Backoff
}

func DefaultConfig() *Config {
	return &Config{
		Client:     &fasthttp.Client{},
		Timeout:    client.DefaultTimeout,
		MaxRetries: 3,
		Backoff: client.NewExponentialBackoff(
			client.ExponentialBackoffInitialTimeout,
			client.ExponentialBackoffMaxTimeout,
		),
	}
}

func NewConfig(c *fasthttp.Client, to []string) *Config {
	cfg := DefaultConfig()
	if c != nil {
		cfg.Client = c
	}
	cfg.SendTo = to
	return cfg
}

type Publisher struct {
	conf *Config
	log  log.Logger
}

func NewPublisher(conf *Config, logger log.Logger) *Publisher {
	if logger == nil {
		logger = log.L()
	}
	return &Publisher{
		conf: conf,
		log:  logger.Named("publisher"),
	}
}

// Publish posts the encoded signed root to every configured store. It
// tries all of them and returns the first failure, if any.
func (p *Publisher) Publish(signed *protocol.SignedRoot) error {
	buf, err := signed.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding signed root")
	}

	var first error
	for _, to := range p.conf.SendTo {
		url := strings.TrimSuffix(to, "/") + RootsPath
		if err := p.send(url, buf); err != nil {
			metrics.ReservesPublishErrorsTotal.Inc()
			p.log.Infof("Error publishing signed root to %s: %v", url, err)
			if first == nil {
				first = err
			}
			continue
		}
		metrics.ReservesPublishedRootsTotal.Inc()
		p.log.Debugf("Signed root %x published to %s", signed.Root, url)
	}
	return first
}

func (p *Publisher) send(url string, body []byte) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/msgpack")
	req.SetBody(body)

	for attempt := 0; ; attempt++ {
		err := p.conf.Client.DoTimeout(req, resp, p.conf.Timeout)
		if err == nil && resp.StatusCode() < 300 {
			return nil
		}
		if err == nil {
			err = fmt.Errorf("status code %d", resp.StatusCode())
		}

		if attempt >= p.conf.MaxRetries {
			return errors.Wrapf(err, "giving up after %d attempts", attempt+1)
		}
		wait, goahead := p.conf.Backoff.Next(attempt)
		if !goahead {
			return errors.Wrapf(err, "giving up after %d attempts", attempt+1)
		}
		p.log.Debugf("POST %s failed: %v, retrying in %s", url, err, wait)
		time.Sleep(wait)
		resp.Reset()
	}
}
