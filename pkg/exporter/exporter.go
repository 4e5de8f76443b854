// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exporter polls the configured devices on every scrape and exposes
// their interface and environment readings as Prometheus metrics.
package exporter

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

const namespace = "bigip"

// Device is the part of a driver session the exporter reads from.
type Device interface {
	Name() string
	Open(ctx context.Context) error
	IsAlive() types.IsAlive
	Close() error
	GetInterfaces(ctx context.Context) (map[string]types.Interface, error)
	GetInterfacesCounters(ctx context.Context) (map[string]types.InterfaceCounters, error)
	GetEnvironment(ctx context.Context) (*types.Environment, error)
}

// target serializes the access to one device session.
type target struct {
	m   sync.Mutex
	dev Device
}

type Exporter struct {
	cfg     *config.Exporter
	targets []*target
}

func New(cfg *config.Exporter, devices ...Device) *Exporter {
	e := &Exporter{
		cfg:     cfg,
		targets: make([]*target, 0, len(devices)),
	}
	for _, d := range devices {
		e.targets = append(e.targets, &target{dev: d})
	}
	return e
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range allDescs {
		ch <- d
	}
}

// Collect scrapes all devices, at most MaxConcurrency at a time. A device
// failing to answer is reported as down and its session is dropped, the next
// scrape reconnects.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ScrapeTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.MaxConcurrency)
	for _, t := range e.targets {
		t := t
		eg.Go(func() error {
			e.collectTarget(ctx, t, ch)
			return nil
		})
	}
	eg.Wait()
}

func (e *Exporter) collectTarget(ctx context.Context, t *target, ch chan<- prometheus.Metric) {
	t.m.Lock()
	defer t.m.Unlock()

	name := t.dev.Name()
	start := time.Now()
	err := e.scrape(ctx, t.dev, ch)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds(), name)
	if err != nil {
		log.WithFields(log.Fields{"device": name}).Errorf("scrape failed: %v", err)
		t.dev.Close()
		ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 0, name)
		return
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 1, name)
}

func (e *Exporter) scrape(ctx context.Context, dev Device, ch chan<- prometheus.Metric) error {
	if !dev.IsAlive().IsAlive {
		if err := dev.Open(ctx); err != nil {
			return err
		}
	}
	name := dev.Name()

	ifs, err := dev.GetInterfaces(ctx)
	if err != nil {
		return err
	}
	counters, err := dev.GetInterfacesCounters(ctx)
	if err != nil {
		return err
	}
	collectInterfaces(ch, name, ifs, counters)

	if !e.cfg.Environment {
		return nil
	}
	env, err := dev.GetEnvironment(ctx)
	if err != nil {
		return err
	}
	collectEnvironment(ch, name, env)
	return nil
}

// Close drops the sessions of all devices, waiting for running scrapes.
func (e *Exporter) Close() {
	for _, t := range e.targets {
		t.m.Lock()
		t.dev.Close()
		t.m.Unlock()
	}
}
