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

package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
)

// SingleShot sends the whole file in one request and then moves it from the
// public download directory, which the device does not load from, into the
// private staging directory.
type SingleShot struct {
	Files       bigip.FileUploader
	Shell       bigip.Executor
	DownloadDir string
	StagingDir  string
}

func (s *SingleShot) RemotePath(localPath string) string {
	return remotePath(s.StagingDir, localPath)
}

func (s *SingleShot) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	name := filepath.Base(localPath)
	log.Debugf("uploading %s (%d bytes) to %s", localPath, fi.Size(), s.DownloadDir)
	err = s.Files.UploadFile(ctx, name, f, fi.Size())
	if err != nil {
		return "", err
	}

	src := remotePath(s.DownloadDir, name)
	_, err = bigip.Run(ctx, s.Shell, fmt.Sprintf("mv %s %s", bigip.ShellQuote(src), bigip.ShellQuote(s.StagingDir+"/")))
	if err != nil {
		// the file is left in the download directory
		return src, fmt.Errorf("failed to move %s to %s: %w", src, s.StagingDir, err)
	}
	return s.RemotePath(name), nil
}
