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

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver"
	"github.com/sdcio/bigip-driver/pkg/exporter"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config *config.Config

	ctx context.Context
	cfn context.CancelFunc

	router   *mux.Router
	reg      *prometheus.Registry
	exporter *exporter.Exporter
	srv      *http.Server
}

func New(ctx context.Context, c *config.Config) (*Server, error) {
	th, err := c.Thresholds()
	if err != nil {
		return nil, fmt.Errorf("failed to load thresholds: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var s = &Server{
		config: c,
		ctx:    ctx,
		cfn:    cancel,

		router: mux.NewRouter(),
		reg:    prometheus.NewRegistry(),
	}

	metrics := driver.NewMetrics(s.reg)
	devices := make([]exporter.Device, 0, len(c.Devices))
	for _, dc := range c.Devices {
		log.Debugf("adding device %s (%s over %s)", dc.Name, dc.Address, dc.Transport)
		devices = append(devices, driver.New(dc,
			driver.WithThresholds(th),
			driver.WithMetrics(metrics),
		))
	}
	s.exporter = exporter.New(c.Exporter, devices...)

	s.reg.MustRegister(s.exporter)
	s.reg.MustRegister(collectors.NewGoCollector())
	s.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s.router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server until the context passed to New is cancelled or
// Stop is called.
func (s *Server) Serve() error {
	s.srv = &http.Server{
		Addr:         s.config.Exporter.Address,
		Handler:      s.router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(ctx); err != nil {
			log.Errorf("HTTP server shutdown: %v", err)
		}
	}()

	log.Infof("starting exporter on %s for %d device(s)", s.config.Exporter.Address, len(s.config.Devices))
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop() {
	s.cfn()
	s.exporter.Close()
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
