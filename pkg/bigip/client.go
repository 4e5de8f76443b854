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

// Package bigip defines the transport contract between the device driver and
// a BIG-IP management API. Implementations live in the rest and icontrol
// subpackages and must stay free of business logic: they move bytes and
// normalize the native schema into Objects, nothing more.
package bigip

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupported is returned by a transport for a primitive or a resource its
// management API cannot serve.
var ErrUnsupported = errors.New("unsupported by transport")

//go:generate mockgen -source=client.go -destination=../../mocks/mockbigip/client.go -package=mockbigip

type Client interface {
	// Exec runs a shell command on the device and returns its output
	Exec(ctx context.Context, command string) (string, error)
	// Query reads a resource and returns its objects with normalized properties
	Query(ctx context.Context, resource Resource) ([]*Object, error)
	// LoadConfig loads a staged configuration file, either merging it into the
	// running configuration or replacing it
	LoadConfig(ctx context.Context, remotePath string, merge bool) error
	// SaveConfig persists the running configuration
	SaveConfig(ctx context.Context) error
	// RemoveFile deletes a staged file on the device
	RemoveFile(ctx context.Context, remotePath string) error
	// Close releases the session
	Close() error
}

// FileUploader is implemented by transports able to receive a whole file in
// one request. The file lands in the device's public download directory.
type FileUploader interface {
	UploadFile(ctx context.Context, name string, r io.Reader, size int64) error
}

// ChunkUploader is implemented by transports receiving files as a sequence of
// base64 encoded, chain tagged chunks.
type ChunkUploader interface {
	UploadChunk(ctx context.Context, remotePath string, chunk *Chunk) error
}

type ChainType string

const (
	ChainFirst        ChainType = "FILE_FIRST"
	ChainMiddle       ChainType = "FILE_MIDDLE"
	ChainLast         ChainType = "FILE_LAST"
	ChainFirstAndLast ChainType = "FILE_FIRST_AND_LAST"
)

type Chunk struct {
	// base64 encoded chunk payload
	Data  string
	Chain ChainType
}

// APIError is a request the device answered with an error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("F5 API error: %s", e.Message)
	}
	return fmt.Sprintf("F5 API error (%d): %s", e.StatusCode, e.Message)
}
