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

// Package driver exposes the management operations of an F5 BIG-IP device
// behind one vendor neutral contract.
package driver

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/bigip/icontrol"
	"github.com/sdcio/bigip-driver/pkg/bigip/rest"
	"github.com/sdcio/bigip-driver/pkg/bigip/ssh"
	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
	"github.com/sdcio/bigip-driver/pkg/upload"
)

const (
	Vendor = "F5 Networks"

	EncodingText = "text"
)

// Dialer opens a transport session to the device.
type Dialer func(ctx context.Context, cfg *config.DeviceConfig) (bigip.Client, error)

// UploaderFactory returns the upload strategy for an open session.
type UploaderFactory func(cfg *config.Upload, c bigip.Client) (upload.Strategy, error)

// CommandRunner executes shell commands out of band of the management API.
type CommandRunner interface {
	Exec(ctx context.Context, command string) (string, error)
	Close() error
}

// Driver is a session to one device. A Driver is not safe for concurrent use,
// callers serialize access.
type Driver struct {
	cfg         *config.DeviceConfig
	dial        Dialer
	newUploader UploaderFactory
	newRunner   func(cfg *config.DeviceConfig) (CommandRunner, error)
	thresholds  *config.Thresholds
	metrics     *Metrics

	client   bigip.Client
	uploader upload.Strategy
	runner   CommandRunner
	// staged configuration awaiting commit or discard
	candidate *candidate
}

type Option func(*Driver)

// WithDialer replaces the transport selection based on the device config.
func WithDialer(dial Dialer) Option {
	return func(d *Driver) {
		d.dial = dial
	}
}

func WithUploader(f UploaderFactory) Option {
	return func(d *Driver) {
		d.newUploader = f
	}
}

// WithThresholds sets the temperature thresholds used by GetEnvironment.
func WithThresholds(t *config.Thresholds) Option {
	return func(d *Driver) {
		d.thresholds = t
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithCommandRunner runs CLI commands with r instead of the management API.
// The driver takes ownership of r.
func WithCommandRunner(r CommandRunner) Option {
	return func(d *Driver) {
		d.runner = r
	}
}

func New(cfg *config.DeviceConfig, opts ...Option) *Driver {
	d := &Driver{
		cfg:         cfg,
		dial:        DefaultDialer,
		newUploader: upload.New,
		newRunner:   newSSHRunner,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Driver) Name() string {
	return d.cfg.Name
}

// DefaultDialer opens the transport named in the device config. An icontrol
// session gets an SSH runner for shell commands when ssh is configured.
func DefaultDialer(ctx context.Context, cfg *config.DeviceConfig) (bigip.Client, error) {
	switch cfg.Transport {
	case config.TransportREST, "":
		c, err := rest.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.TransportIControl:
		var opts []icontrol.Option
		var r *ssh.Runner
		if cfg.SSH != nil {
			var err error
			r, err = ssh.NewRunner(cfg)
			if err != nil {
				return nil, fmt.Errorf("ssh: %w", err)
			}
			opts = append(opts, icontrol.WithCommandRunner(r))
		}
		c, err := icontrol.NewClient(ctx, cfg, opts...)
		if err != nil {
			if r != nil {
				r.Close()
			}
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}

func newSSHRunner(cfg *config.DeviceConfig) (CommandRunner, error) {
	r, err := ssh.NewRunner(cfg)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Open connects to the device. Opening an open driver does nothing.
func (d *Driver) Open(ctx context.Context) (err error) {
	if d.client != nil {
		return nil
	}
	defer d.observe("open", time.Now(), &err)

	c, err := d.dial(ctx, d.cfg)
	if err != nil {
		return opError("open", ErrConnection, err)
	}
	uploader, err := d.newUploader(d.cfg.Upload, c)
	if err != nil {
		c.Close()
		return opError("open", ErrConnection, err)
	}
	// the icontrol transport routes shell commands over ssh itself
	if d.runner == nil && d.cfg.SSH != nil && d.cfg.Transport == config.TransportREST {
		r, err := d.newRunner(d.cfg)
		if err != nil {
			c.Close()
			return opError("open", ErrConnection, fmt.Errorf("ssh: %w", err))
		}
		d.runner = r
	}
	d.client = c
	d.uploader = uploader
	log.Infof("%s: session open over %s", d.cfg.Name, d.cfg.Transport)
	return nil
}

// Close drops the session. It never fails, transport errors are logged.
func (d *Driver) Close() error {
	if d.runner != nil {
		if err := d.runner.Close(); err != nil {
			log.Warnf("%s: failed to close command runner: %v", d.cfg.Name, err)
		}
		d.runner = nil
	}
	if d.client == nil {
		return nil
	}
	if err := d.client.Close(); err != nil {
		log.Warnf("%s: failed to close session: %v", d.cfg.Name, err)
	}
	d.client = nil
	d.uploader = nil
	log.Infof("%s: session closed", d.cfg.Name)
	return nil
}

// IsAlive reports whether a session handle is held. It does not probe the
// device.
func (d *Driver) IsAlive() types.IsAlive {
	return types.IsAlive{IsAlive: d.client != nil}
}

// CLI runs the commands on the device shell and maps each command to its
// output.
func (d *Driver) CLI(ctx context.Context, commands []string, encoding string) (map[string]string, error) {
	const op = "cli"
	if encoding == "" {
		encoding = EncodingText
	}
	if encoding != EncodingText {
		return nil, opError(op, ErrNotImplemented, fmt.Errorf("encoding %q", encoding))
	}
	if err := d.checkOpen(op); err != nil {
		return nil, err
	}
	r := make(map[string]string, len(commands))
	for _, cmd := range commands {
		out, err := d.exec(ctx, op, cmd)
		if err != nil {
			return nil, err
		}
		r[cmd] = out
	}
	return r, nil
}

func (d *Driver) checkOpen(op string) error {
	if d.client == nil {
		return opError(op, ErrNotOpen, nil)
	}
	return nil
}

// exec runs a shell command, preferring the command runner.
func (d *Driver) exec(ctx context.Context, op, command string) (out string, err error) {
	defer d.observe(op, time.Now(), &err)
	log.Debugf("%s: exec %q", d.cfg.Name, command)
	if d.runner != nil {
		out, err = d.runner.Exec(ctx, command)
	} else {
		out, err = d.client.Exec(ctx, command)
	}
	if err != nil {
		return "", transportError(op, err)
	}
	return out, nil
}

// query reads a resource from the device.
func (d *Driver) query(ctx context.Context, op string, resource bigip.Resource) (objs []*bigip.Object, err error) {
	if err := d.checkOpen(op); err != nil {
		return nil, err
	}
	defer d.observe(op, time.Now(), &err)
	objs, err = d.client.Query(ctx, resource)
	if err != nil {
		return nil, transportError(op, fmt.Errorf("%s: %w", resource, err))
	}
	return objs, nil
}

// queryOne reads a resource holding a single object.
func (d *Driver) queryOne(ctx context.Context, op string, resource bigip.Resource) (*bigip.Object, error) {
	objs, err := d.query(ctx, op, resource)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, opError(op, ErrConnection, fmt.Errorf("%s: empty response", resource))
	}
	return objs[0], nil
}

func (d *Driver) observe(op string, start time.Time, err *error) {
	d.metrics.observe(d.cfg.Name, op, start, *err)
}
