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

// Package icontrol implements bigip.Client over the legacy iControl SOAP
// portal. The portal has no shell access: Exec is served by an optional
// command runner, usually an SSH session.
package icontrol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/config"
)

const (
	portalPath = "/iControl/iControlPortal.cgi"

	loadFlagHighLevel = "LOAD_HIGH_LEVEL_CONFIG"
	saveFlagHighLevel = "SAVE_HIGH_LEVEL_CONFIG"
)

// CommandRunner executes shell commands on the device.
type CommandRunner interface {
	Exec(ctx context.Context, command string) (string, error)
	Close() error
}

// Client is an iControl SOAP session. It is not safe for concurrent use.
type Client struct {
	name     string
	url      string
	http     *http.Client
	username string
	password string
	runner   CommandRunner
	// stops the client certificate watcher
	stop context.CancelFunc
}

type Option func(*Client)

// WithCommandRunner serves Exec with the given runner. The client owns the
// runner and closes it on Close.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// NewClient returns a session after probing the portal with
// System.SystemInfo.get_version.
func NewClient(ctx context.Context, cfg *config.DeviceConfig, opts ...Option) (*Client, error) {
	wctx, stop := context.WithCancel(context.Background())
	hc, err := bigip.NewHTTPClient(wctx, cfg)
	if err != nil {
		stop()
		return nil, err
	}
	c := &Client{
		name: cfg.Name,
		url:  bigip.BaseURL(cfg) + portalPath,
		http: hc,
		stop: stop,
	}
	if cfg.Credentials != nil {
		c.username = cfg.Credentials.Username
		c.password = cfg.Credentials.Password
	}
	for _, o := range opts {
		o(c)
	}
	version, err := c.call(ctx, "System.SystemInfo", "get_version")
	if err != nil {
		stop()
		hc.CloseIdleConnections()
		return nil, err
	}
	log.Debugf("%s: connected to %v", c.name, version)
	return c, nil
}

// call invokes iface.method and returns the decoded return value.
func (c *Client) call(ctx context.Context, iface, method string, params ...param) (any, error) {
	body, err := newEnvelopeBuilder().build(iface, method, params...)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", urn(iface))

	log.Tracef("%s: calling %s.%s", c.name, iface, method)
	rsp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	b, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", iface, method, err)
	}

	switch {
	case rsp.StatusCode == http.StatusOK:
	case rsp.StatusCode == http.StatusInternalServerError && len(b) > 0:
		// faults are reported with status 500 and a fault body
	default:
		msg := strings.TrimSpace(string(b))
		if msg == "" || strings.HasPrefix(msg, "<") {
			msg = http.StatusText(rsp.StatusCode)
		}
		return nil, &bigip.APIError{StatusCode: rsp.StatusCode, Message: fmt.Sprintf("%s.%s: %s", iface, method, msg)}
	}
	v, err := decodeResponse(b)
	if err != nil {
		if f, ok := err.(*Fault); ok {
			return nil, &bigip.APIError{StatusCode: rsp.StatusCode, Message: fmt.Sprintf("%s.%s: %s", iface, method, f.Error())}
		}
		return nil, fmt.Errorf("%s.%s: %w", iface, method, err)
	}
	return v, nil
}

func (c *Client) Exec(ctx context.Context, command string) (string, error) {
	if c.runner == nil {
		return "", fmt.Errorf("shell commands: %w", bigip.ErrUnsupported)
	}
	return c.runner.Exec(ctx, command)
}

func (c *Client) LoadConfig(ctx context.Context, remotePath string, merge bool) error {
	_, err := c.call(ctx, "System.ConfigSync", "install_single_configuration_file",
		param{"filename", remotePath},
		param{"load_flag", loadFlagHighLevel},
		param{"passphrase", ""},
		param{"tarfile", ""},
		param{"merge", merge},
	)
	return err
}

func (c *Client) SaveConfig(ctx context.Context) error {
	_, err := c.call(ctx, "System.ConfigSync", "save_configuration",
		param{"filename", ""},
		param{"save_flag", saveFlagHighLevel},
	)
	return err
}

func (c *Client) RemoveFile(ctx context.Context, remotePath string) error {
	_, err := c.call(ctx, "System.ConfigSync", "delete_single_configuration_file",
		param{"filename", remotePath},
	)
	return err
}

// UploadChunk sends one chunk of a file with System.ConfigSync.upload_file.
func (c *Client) UploadChunk(ctx context.Context, remotePath string, chunk *bigip.Chunk) error {
	_, err := c.call(ctx, "System.ConfigSync", "upload_file",
		param{"file_name", remotePath},
		param{"file_context", map[string]any{
			"file_data":  chunk.Data,
			"chain_type": string(chunk.Chain),
		}},
	)
	return err
}

func (c *Client) Close() error {
	c.stop()
	c.http.CloseIdleConnections()
	if c.runner == nil {
		return nil
	}
	err := c.runner.Close()
	c.runner = nil
	return err
}
