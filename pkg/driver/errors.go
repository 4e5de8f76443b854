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

package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/sdcio/bigip-driver/pkg/bigip"
)

// error kinds, match them with errors.Is
var (
	ErrConnection     = errors.New("connection failure")
	ErrReplaceConfig  = errors.New("replace config failure")
	ErrMergeConfig    = errors.New("merge config failure")
	ErrCommitConfig   = errors.New("commit failure")
	ErrDiscardConfig  = errors.New("discard failure")
	ErrNotImplemented = errors.New("not implemented")
	ErrLocalIO        = errors.New("local io failure")
	ErrNotOpen        = errors.New("session not open")
	ErrNoCandidate    = errors.New("no candidate configuration staged")
)

// OpError is returned by every Driver operation. Both the kind and the
// underlying cause are visible to errors.Is and errors.As.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// LocalIOError is a failure to access a local file, carrying the OS error
// number when there is one.
type LocalIOError struct {
	Path  string
	Errno syscall.Errno
	Err   error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("Error (%d): %s", int(e.Errno), e.Strerror())
}

// Strerror returns the OS description of the error.
func (e *LocalIOError) Strerror() string {
	if e.Errno != 0 {
		return e.Errno.Error()
	}
	return e.Err.Error()
}

func (e *LocalIOError) Unwrap() []error {
	return []error{ErrLocalIO, e.Err}
}

// asLocalIOError returns the LocalIOError for a local file access failure.
func asLocalIOError(err error) (*LocalIOError, bool) {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return nil, false
	}
	le := &LocalIOError{Path: pathErr.Path, Err: err}
	errors.As(err, &le.Errno)
	return le, true
}

func opError(op string, kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// transportError maps a transport failure to ErrConnection, or to
// ErrNotImplemented when the transport cannot serve the request.
func transportError(op string, err error) *OpError {
	if errors.Is(err, bigip.ErrUnsupported) {
		return opError(op, ErrNotImplemented, err)
	}
	return opError(op, ErrConnection, err)
}
