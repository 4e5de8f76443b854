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
	"encoding/base64"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
)

// Chunked sends the file as a sequence of base64 encoded chunks, each tagged
// with its position in the file. There is no resume: a failure leaves a
// partial file on the device.
type Chunked struct {
	Chunks     bigip.ChunkUploader
	StagingDir string
	ChunkSize  int
}

func (c *Chunked) RemotePath(localPath string) string {
	return remotePath(c.StagingDir, localPath)
}

func (c *Chunked) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	size := fi.Size()

	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	dst := c.RemotePath(localPath)
	buf := make([]byte, chunkSize)

	var offset int64
	for {
		n, err := io.ReadFull(f, buf)
		switch err {
		case nil, io.ErrUnexpectedEOF, io.EOF:
		default:
			return "", &os.PathError{Op: "read", Path: localPath, Err: err}
		}
		end := offset + int64(n)
		chunk := &bigip.Chunk{
			Data:  base64.StdEncoding.EncodeToString(buf[:n]),
			Chain: ChainFor(offset, end, size),
		}
		log.Debugf("uploading %s chunk [%d:%d] of %d as %s", dst, offset, end, size, chunk.Chain)
		if uerr := c.Chunks.UploadChunk(ctx, dst, chunk); uerr != nil {
			return "", fmt.Errorf("chunk [%d:%d] of %s: %w", offset, end, dst, uerr)
		}
		offset = end
		if offset >= size || err != nil {
			break
		}
	}
	return dst, nil
}

// ChainFor tags a chunk spanning [start, end) of a file of the given size.
func ChainFor(start, end, size int64) bigip.ChainType {
	first := start == 0
	last := end >= size
	switch {
	case first && last:
		return bigip.ChainFirstAndLast
	case first:
		return bigip.ChainFirst
	case last:
		return bigip.ChainLast
	}
	return bigip.ChainMiddle
}
