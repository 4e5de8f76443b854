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
	"errors"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"
)

const (
	TransportREST     = "rest"
	TransportIControl = "icontrol"

	UploadModeAuto       = "auto"
	UploadModeSingleShot = "single-shot"
	UploadModeChunked    = "chunked"
)

type DeviceConfig struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// management address, host or host:port
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	Port    uint32 `yaml:"port,omitempty" json:"port,omitempty"`
	// management API flavor, one of: rest, icontrol
	Transport   string `yaml:"transport,omitempty" json:"transport,omitempty"`
	Credentials *Creds `yaml:"credentials,omitempty" json:"credentials,omitempty"`
	TLS         *TLS   `yaml:"tls,omitempty" json:"tls,omitempty"`
	// REST only: authenticate once and use an X-F5-Auth-Token instead of
	// sending basic auth on every request
	TokenAuth *bool `yaml:"token-auth,omitempty" json:"token-auth,omitempty"`
	// applied to connection setup and every request
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Upload  *Upload       `yaml:"upload,omitempty" json:"upload,omitempty"`
	// optional SSH shell channel for commands
	SSH *SSH `yaml:"ssh,omitempty" json:"ssh,omitempty"`
}

type Creds struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"-"`
	Token    string `yaml:"token,omitempty" json:"-"`
}

type Upload struct {
	// one of: auto, single-shot, chunked
	Mode      string `yaml:"mode,omitempty" json:"mode,omitempty"`
	ChunkSize int    `yaml:"chunk-size,omitempty" json:"chunk-size,omitempty"`
	// private directory the candidate is staged in before it is loaded
	StagingDir string `yaml:"staging-dir,omitempty" json:"staging-dir,omitempty"`
	// directory the single-shot upload endpoint writes to
	DownloadDir string `yaml:"download-dir,omitempty" json:"download-dir,omitempty"`
}

type SSH struct {
	Port      uint32        `yaml:"port,omitempty" json:"port,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	StrictKey bool          `yaml:"strict-key,omitempty" json:"strict-key,omitempty"`
}

func (d *DeviceConfig) ValidateSetDefaults() error {
	if d.Name == "" {
		d.Name = d.Address
	}
	if d.Address == "" {
		return errors.New("missing device address")
	}
	switch d.Transport {
	case "":
		d.Transport = TransportREST
	case TransportREST, TransportIControl:
	default:
		return fmt.Errorf("unknown transport %q. Must be one of %s, %s",
			d.Transport, TransportREST, TransportIControl)
	}
	if d.Port == 0 {
		d.Port = defaultHTTPSPort
	}
	if d.Credentials == nil {
		d.Credentials = &Creds{}
	}
	if d.Credentials.Token == "" && d.Credentials.Username == "" {
		return errors.New("missing credentials")
	}
	if d.TLS == nil {
		d.TLS = &TLS{SkipVerify: true}
	}
	if d.TokenAuth == nil {
		d.TokenAuth = pointer.ToBool(true)
	}
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}
	if d.Upload == nil {
		d.Upload = &Upload{}
	}
	if err := d.Upload.validateSetDefaults(d.Transport); err != nil {
		return err
	}
	if d.SSH != nil {
		d.SSH.validateSetDefaults(d.Timeout)
	}
	return nil
}

func (u *Upload) validateSetDefaults(transport string) error {
	switch u.Mode {
	case "", UploadModeAuto:
		u.Mode = UploadModeChunked
		if transport == TransportREST {
			u.Mode = UploadModeSingleShot
		}
	case UploadModeSingleShot:
		if transport != TransportREST {
			return fmt.Errorf("upload mode %q requires transport %q", u.Mode, TransportREST)
		}
	case UploadModeChunked:
		if transport != TransportIControl {
			return fmt.Errorf("upload mode %q requires transport %q", u.Mode, TransportIControl)
		}
	default:
		return fmt.Errorf("unknown upload mode %q. Must be one of %s, %s, %s",
			u.Mode, UploadModeAuto, UploadModeSingleShot, UploadModeChunked)
	}
	if u.ChunkSize <= 0 {
		u.ChunkSize = defaultChunkSize
	}
	if u.DownloadDir == "" {
		u.DownloadDir = defaultDownloadDir
	}
	if u.StagingDir == "" {
		u.StagingDir = defaultSingleShotStagingDir
		if u.Mode == UploadModeChunked {
			u.StagingDir = defaultChunkedStagingDir
		}
	}
	return nil
}

func (s *SSH) validateSetDefaults(timeout time.Duration) {
	if s.Port == 0 {
		s.Port = defaultSSHPort
	}
	if s.Timeout <= 0 {
		s.Timeout = timeout
	}
}
