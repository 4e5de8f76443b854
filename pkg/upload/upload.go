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

// Package upload transfers a local configuration file to the staging
// location of a device.
package upload

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/config"
)

// DefaultChunkSize is the payload size of a chunked upload before encoding.
const DefaultChunkSize = 512 * 1024

// Strategy uploads a local file and returns the remote path it was staged at.
//
// Local file errors are returned wrapping the *fs.PathError produced by the
// os package, everything else comes from the transport.
type Strategy interface {
	// RemotePath returns where the local file is staged on the device.
	RemotePath(localPath string) string
	// Upload returns the staged path. On failure a non-empty path names the
	// copy left on the device.
	Upload(ctx context.Context, localPath string) (string, error)
}

// New returns the strategy configured for the device, backed by the given
// client.
func New(cfg *config.Upload, c bigip.Client) (Strategy, error) {
	switch cfg.Mode {
	case config.UploadModeSingleShot:
		fu, ok := c.(bigip.FileUploader)
		if !ok {
			return nil, fmt.Errorf("%s upload: %w", cfg.Mode, bigip.ErrUnsupported)
		}
		return &SingleShot{
			Files:       fu,
			Shell:       c,
			DownloadDir: cfg.DownloadDir,
			StagingDir:  cfg.StagingDir,
		}, nil
	case config.UploadModeChunked:
		cu, ok := c.(bigip.ChunkUploader)
		if !ok {
			return nil, fmt.Errorf("%s upload: %w", cfg.Mode, bigip.ErrUnsupported)
		}
		return &Chunked{
			Chunks:     cu,
			StagingDir: cfg.StagingDir,
			ChunkSize:  cfg.ChunkSize,
		}, nil
	}
	return nil, fmt.Errorf("unknown upload mode %q", cfg.Mode)
}

// remotePath joins the basename of the local file to a device directory.
func remotePath(dir, localPath string) string {
	return path.Join(dir, filepath.Base(localPath))
}
