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

package bigip

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/sdcio/bigip-driver/pkg/config"
)

// BaseURL returns the https base URL of the device management interface.
// An address that already carries a port wins over the configured port.
func BaseURL(cfg *config.DeviceConfig) string {
	if _, _, err := net.SplitHostPort(cfg.Address); err == nil {
		return "https://" + cfg.Address
	}
	return "https://" + net.JoinHostPort(cfg.Address, strconv.Itoa(int(cfg.Port)))
}

// NewTransport builds the HTTP transport shared by the transports. A client
// certificate is watched for changes until ctx is done.
func NewTransport(ctx context.Context, cfg *config.DeviceConfig) (*http.Transport, error) {
	t := cfg.TLS
	if t == nil {
		t = &config.TLS{}
	}
	tlsCfg, err := t.NewConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build TLS config for %s: %w", cfg.Name, err)
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = tlsCfg
	return tr, nil
}

// NewHTTPClient returns a client over NewTransport. The device timeout
// applies to every request.
func NewHTTPClient(ctx context.Context, cfg *config.DeviceConfig) (*http.Client, error) {
	tr, err := NewTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}, nil
}
