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

// Package rest implements bigip.Client over iControl REST with a go-bigip
// session.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	f5 "github.com/f5devcentral/go-bigip"
	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/config"
)

const (
	pathLogin  = "mgmt/shared/authn/login"
	pathTokens = "mgmt/shared/authz/tokens"
	pathBash   = "mgmt/tm/util/bash"
	pathConfig = "mgmt/tm/sys/config"

	loginProvider = "tmos"
	tokenTimeout  = 1200 * time.Second
)

var (
	shellQuoter  = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	errEmptyFile = errors.New("empty file")
)

// Client is an iControl REST session. It is not safe for concurrent use.
//
// go-bigip calls take no context: ctx is checked before every call and the
// device timeout bounds each request.
type Client struct {
	name    string
	session *f5.BigIP
	// token obtained by login, released on Close
	ownToken bool
	// stops the client certificate watcher
	stop context.CancelFunc
}

type loginRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	LoginProviderName string `json:"loginProviderName"`
}

type loginResponse struct {
	Token struct {
		Token string `json:"token"`
	} `json:"token"`
}

type configCommand struct {
	Command string          `json:"command"`
	Options []configOptions `json:"options,omitempty"`
}

type configOptions struct {
	File  string `json:"file"`
	Merge bool   `json:"merge"`
}

// NewClient authenticates against the device and returns a ready session.
func NewClient(ctx context.Context, cfg *config.DeviceConfig) (*Client, error) {
	wctx, stop := context.WithCancel(context.Background())
	tr, err := bigip.NewTransport(wctx, cfg)
	if err != nil {
		stop()
		return nil, err
	}
	s := &f5.BigIP{
		Host:      bigip.BaseURL(cfg),
		Transport: tr,
		ConfigOptions: &f5.ConfigOptions{
			APICallTimeout: cfg.Timeout,
			TokenTimeout:   tokenTimeout,
			APICallRetries: 1,
		},
	}
	if cfg.Credentials != nil {
		s.User = cfg.Credentials.Username
		s.Password = cfg.Credentials.Password
		s.Token = cfg.Credentials.Token
	}
	c := &Client{
		name:    cfg.Name,
		session: s,
		stop:    stop,
	}

	tokenAuth := cfg.TokenAuth == nil || *cfg.TokenAuth
	switch {
	case s.Token != "":
		log.Debugf("%s: using configured auth token", c.name)
		err = c.checkVersion(ctx)
	case tokenAuth:
		err = c.login(ctx)
	default:
		err = c.checkVersion(ctx)
	}
	if err != nil {
		stop()
		tr.CloseIdleConnections()
		return nil, err
	}
	return c, nil
}

// login obtains a token over the session transport. f5.NewTokenSession
// dials with a transport of its own, which knows neither the configured CA
// nor the client certificate.
func (c *Client) login(ctx context.Context) error {
	req := &loginRequest{
		Username:          c.session.User,
		Password:          c.session.Password,
		LoginProviderName: loginProvider,
	}
	rsp := new(loginResponse)
	if err := c.call(ctx, "post", pathLogin, req, rsp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if rsp.Token.Token == "" {
		return fmt.Errorf("login failed: no token in response")
	}
	c.session.Token = rsp.Token.Token
	c.ownToken = true
	log.Debugf("%s: obtained auth token", c.name)
	return nil
}

func (c *Client) checkVersion(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := c.session.BigipVersion()
	if err != nil {
		return apiError(err)
	}
	log.Debugf("%s: connected to %s", c.name, v.Entries.HTTPSLocalhostMgmtTmCliVersion0.NestedStats.Entries.Active.Description)
	return nil
}

// Exec runs the command with bash on the device.
func (c *Client) Exec(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rsp, err := c.session.RunCommand(&f5.BigipCommand{
		Command:     "run",
		UtilCmdArgs: fmt.Sprintf(`-c "%s"`, shellQuoter.Replace(command)),
	})
	if err != nil {
		return "", apiError(err)
	}
	return rsp.CommandResult, nil
}

// LoadConfig and SaveConfig post to sys/config, go-bigip has no wrapper
// for it.
func (c *Client) LoadConfig(ctx context.Context, remotePath string, merge bool) error {
	req := &configCommand{
		Command: "load",
		Options: []configOptions{{File: remotePath, Merge: merge}},
	}
	return c.call(ctx, "post", pathConfig, req, nil)
}

func (c *Client) SaveConfig(ctx context.Context) error {
	return c.call(ctx, "post", pathConfig, &configCommand{Command: "save"}, nil)
}

func (c *Client) RemoveFile(ctx context.Context, remotePath string) error {
	_, err := bigip.Run(ctx, c, "rm -f "+bigip.ShellQuote(remotePath))
	return err
}

// UploadFile posts the file to the upload endpoint. The device stores it in
// its download directory under the given name.
func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("upload %s: %w", name, errEmptyFile)
	}
	_, err := c.session.Upload(r, size, "shared", "file-transfer", "uploads", url.PathEscape(name))
	if err != nil {
		return apiError(err)
	}
	return nil
}

// Close releases the auth token obtained at login. Failures are logged.
func (c *Client) Close() error {
	defer c.session.Transport.CloseIdleConnections()
	defer c.stop()
	if !c.ownToken {
		return nil
	}
	_, err := c.session.APICall(&f5.APIRequest{
		Method: "delete",
		URL:    pathTokens + "/" + c.session.Token,
	})
	if err != nil {
		log.Warnf("%s: failed to release auth token: %v", c.name, err)
	}
	c.ownToken = false
	c.session.Token = ""
	return nil
}

// call sends a JSON request to an endpoint go-bigip does not wrap and
// decodes the JSON response into out, if set.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := &f5.APIRequest{
		Method: method,
		URL:    path,
	}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		req.Body = string(b)
		req.ContentType = "application/json"
	}
	log.Tracef("%s: %s %s", c.name, strings.ToUpper(method), path)
	b, err := c.session.APICall(req)
	if err != nil {
		return apiError(err)
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", strings.ToUpper(method), path, err)
	}
	return nil
}

// apiError marks errors the device answered with. go-bigip reports them
// with the message of the response body only.
func apiError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return err
	}
	return &bigip.APIError{Message: err.Error()}
}
