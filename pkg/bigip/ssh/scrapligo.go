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

// Package ssh runs shell commands on a device over an interactive SSH
// session.
package ssh

import (
	"context"
	"fmt"
	"net"
	"regexp"

	"github.com/scrapli/scrapligo/driver/generic"
	"github.com/scrapli/scrapligo/driver/options"
	"github.com/scrapli/scrapligo/util"
	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/config"
)

// PromptPattern matches the bash prompt of a BIG-IP advanced shell, e.g.
// "[root@bigip1:Active:Standalone] config # ", and a plain "$ " or "# ".
var PromptPattern = regexp.MustCompile(`(?m)^(\[[^\]]+\]\s*\S*\s*)?[#$]\s?$`)

// Runner is an SSH session to the device's advanced shell. The login shell of
// the configured user must be bash.
type Runner struct {
	name   string
	driver *generic.Driver
}

// NewRunner opens an SSH session to the device.
func NewRunner(cfg *config.DeviceConfig) (*Runner, error) {
	if cfg.SSH == nil {
		return nil, fmt.Errorf("%s: ssh is not configured", cfg.Name)
	}
	opts := []util.Option{
		options.WithTransportType("standard"),
		options.WithPort(int(cfg.SSH.Port)),
		options.WithTimeoutOps(cfg.SSH.Timeout),
		options.WithPromptPattern(PromptPattern),
	}
	if !cfg.SSH.StrictKey {
		opts = append(opts, options.WithAuthNoStrictKey())
	}
	if cfg.Credentials != nil {
		opts = append(opts,
			options.WithAuthUsername(cfg.Credentials.Username),
			options.WithAuthPassword(cfg.Credentials.Password),
		)
	}

	d, err := generic.NewDriver(Host(cfg.Address), opts...)
	if err != nil {
		return nil, err
	}
	err = d.Open()
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: ssh session open", cfg.Name)
	return &Runner{
		name:   cfg.Name,
		driver: d,
	}, nil
}

// Host strips the management port from the device address.
func Host(address string) string {
	if h, _, err := net.SplitHostPort(address); err == nil {
		return h
	}
	return address
}

// Exec sends the command and returns its output. Cancellation is only checked
// before the command is sent, the session timeout bounds the command itself.
func (r *Runner) Exec(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := r.driver.SendCommand(command)
	if err != nil {
		return "", err
	}
	if resp.Failed != nil {
		return "", resp.Failed
	}
	return resp.Result, nil
}

func (r *Runner) Close() error {
	log.Debugf("%s: closing ssh session", r.name)
	return r.driver.Close()
}
