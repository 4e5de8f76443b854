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

package config

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"sigs.k8s.io/controller-runtime/pkg/certwatcher"
)

type Config struct {
	Exporter       *Exporter       `yaml:"exporter,omitempty" json:"exporter,omitempty"`
	ThresholdsFile string          `yaml:"thresholds-file,omitempty" json:"thresholds-file,omitempty"`
	Devices        []*DeviceConfig `yaml:"devices,omitempty" json:"devices,omitempty"`
}

type TLS struct {
	CA         string `yaml:"ca,omitempty" json:"ca,omitempty"`
	Cert       string `yaml:"cert,omitempty" json:"cert,omitempty"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
	SkipVerify bool   `yaml:"skip-verify,omitempty" json:"skip-verify,omitempty"`
}

func New(file string) (*Config, error) {
	c := new(Config)
	if file != "" {
		file, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		err = yaml.Unmarshal(b, c)
		if err != nil {
			return nil, err
		}
	}
	err := c.validateSetDefaults()
	return c, err
}

func (c *Config) validateSetDefaults() error {
	if c.Exporter == nil {
		c.Exporter = &Exporter{}
	}
	err := c.Exporter.validateSetDefaults()
	if err != nil {
		return err
	}
	if c.ThresholdsFile != "" {
		c.ThresholdsFile, err = homedir.Expand(c.ThresholdsFile)
		if err != nil {
			return err
		}
	}

	names := make(map[string]struct{}, len(c.Devices))
	var errs []error
	for i, d := range c.Devices {
		if d == nil {
			errs = append(errs, fmt.Errorf("device #%d: empty definition", i))
			continue
		}
		if err := d.ValidateSetDefaults(); err != nil {
			errs = append(errs, fmt.Errorf("device %q: %w", d.Name, err))
			continue
		}
		if _, ok := names[d.Name]; ok {
			errs = append(errs, fmt.Errorf("duplicate device name %q", d.Name))
		}
		names[d.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// Device returns the device with the given name. An empty name is accepted
// when exactly one device is configured.
func (c *Config) Device(name string) (*DeviceConfig, error) {
	if name == "" {
		if len(c.Devices) == 1 {
			return c.Devices[0], nil
		}
		return nil, fmt.Errorf("%d devices configured, a device name is required", len(c.Devices))
	}
	for _, d := range c.Devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown device %q", name)
}

// Thresholds returns the environment thresholds table, read from
// ThresholdsFile if set.
func (c *Config) Thresholds() (*Thresholds, error) {
	if c.ThresholdsFile == "" {
		return DefaultThresholds()
	}
	return LoadThresholds(c.ThresholdsFile)
}

type Exporter struct {
	Address        string        `yaml:"address,omitempty" json:"address,omitempty"`
	MaxConcurrency int           `yaml:"max-concurrency,omitempty" json:"max-concurrency,omitempty"`
	ScrapeTimeout  time.Duration `yaml:"scrape-timeout,omitempty" json:"scrape-timeout,omitempty"`
	Environment    bool          `yaml:"environment,omitempty" json:"environment,omitempty"`
}

func (e *Exporter) validateSetDefaults() error {
	if e.Address == "" {
		e.Address = defaultExporterAddress
	}
	if e.MaxConcurrency <= 0 {
		e.MaxConcurrency = defaultExporterConcurrency
	}
	if e.ScrapeTimeout <= 0 {
		e.ScrapeTimeout = defaultScrapeTimeout
	}
	return nil
}

// NewConfig returns the client TLS config. The client certificate is
// reloaded from disk when it changes, until ctx is done.
func (t *TLS) NewConfig(ctx context.Context) (*tls.Config, error) {
	tlsCfg := &tls.Config{InsecureSkipVerify: t.SkipVerify}
	if t.CA != "" {
		ca, err := os.ReadFile(t.CA)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		if len(ca) != 0 {
			caCertPool := x509.NewCertPool()
			caCertPool.AppendCertsFromPEM(ca)
			tlsCfg.RootCAs = caCertPool
		}
	}

	if t.Cert != "" && t.Key != "" {
		certWatcher, err := certwatcher.New(t.Cert, t.Key)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := certWatcher.Start(ctx); err != nil {
				log.Errorf("certificate watcher error: %v", err)
			}
		}()
		tlsCfg.GetClientCertificate = func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
			return certWatcher.GetCertificate(nil)
		}
	}
	return tlsCfg, nil
}
