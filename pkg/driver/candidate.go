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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

const (
	RetrieveAll       = "all"
	RetrieveRecursive = "recursive"
	FormatText        = "text"

	cmdRunningConfig = "tmsh show running-config"
)

// CandidateSource is the configuration to stage. Only Filename is supported.
type CandidateSource struct {
	Filename string
	Config   string
}

type GetConfigRequest struct {
	// all or recursive, defaults to all
	Retrieve  string
	Full      bool
	Sanitized bool
	// defaults to text
	Format string
}

type candidate struct {
	// basename of the local file
	name       string
	remotePath string
	replace    bool
}

// GetConfig returns the running configuration. The device has no candidate
// or startup configuration, both are returned empty.
func (d *Driver) GetConfig(ctx context.Context, req GetConfigRequest) (*types.Config, error) {
	const op = "get_config"
	if req.Retrieve == "" {
		req.Retrieve = RetrieveAll
	}
	if req.Format == "" {
		req.Format = FormatText
	}
	switch {
	case req.Full || req.Sanitized:
		return nil, opError(op, ErrNotImplemented, errors.New("full and sanitized retrieval"))
	case req.Retrieve != RetrieveAll && req.Retrieve != RetrieveRecursive:
		return nil, opError(op, ErrNotImplemented, fmt.Errorf("retrieve type %q, only the running config is available", req.Retrieve))
	case req.Format != FormatText:
		return nil, opError(op, ErrNotImplemented, fmt.Errorf("format %q", req.Format))
	}
	if err := d.checkOpen(op); err != nil {
		return nil, err
	}

	cmd := cmdRunningConfig
	if req.Retrieve == RetrieveRecursive {
		cmd += " " + RetrieveRecursive
	}
	running, err := d.exec(ctx, op, cmd)
	if err != nil {
		return nil, err
	}
	return &types.Config{Running: running}, nil
}

// LoadReplaceCandidate stages a configuration that replaces the running
// configuration on commit.
func (d *Driver) LoadReplaceCandidate(ctx context.Context, src CandidateSource) error {
	return d.stage(ctx, "load_replace_candidate", ErrReplaceConfig, src, true)
}

// LoadMergeCandidate stages a configuration that is merged into the running
// configuration on commit.
func (d *Driver) LoadMergeCandidate(ctx context.Context, src CandidateSource) error {
	return d.stage(ctx, "load_merge_candidate", ErrMergeConfig, src, false)
}

// stage uploads the candidate. A staged candidate is superseded: its remote
// file is removed and the new one takes its place. A failed upload keeps the
// candidate recorded so it can be discarded.
func (d *Driver) stage(ctx context.Context, op string, kind error, src CandidateSource, replace bool) (err error) {
	if src.Config != "" {
		return opError(op, ErrNotImplemented, errors.New("inline configuration"))
	}
	if src.Filename == "" {
		return opError(op, kind, errors.New("missing filename"))
	}
	if err := d.checkOpen(op); err != nil {
		return err
	}
	defer d.observe(op, time.Now(), &err)

	if prev := d.candidate; prev != nil {
		log.Warnf("%s: superseding staged candidate %s", d.cfg.Name, prev.name)
		if rerr := d.client.RemoveFile(ctx, prev.remotePath); rerr != nil {
			log.Warnf("%s: failed to remove superseded candidate %s: %v", d.cfg.Name, prev.remotePath, rerr)
		}
	}
	d.candidate = &candidate{
		name:       filepath.Base(src.Filename),
		remotePath: d.uploader.RemotePath(src.Filename),
		replace:    replace,
	}

	log.Infof("%s: staging %s as %s", d.cfg.Name, src.Filename, d.candidate.remotePath)
	remote, err := d.uploader.Upload(ctx, src.Filename)
	if remote != "" {
		d.candidate.remotePath = remote
	}
	if err != nil {
		if le, ok := asLocalIOError(err); ok {
			return opError(op, kind, le)
		}
		return opError(op, kind, opError("upload", ErrConnection, err))
	}
	return nil
}

// CommitConfig loads the staged candidate, in the mode it was staged with,
// and saves the running configuration. The device has no commit messages,
// message is only logged.
func (d *Driver) CommitConfig(ctx context.Context, message string) (err error) {
	const op = "commit_config"
	if err := d.checkOpen(op); err != nil {
		return err
	}
	c := d.candidate
	if c == nil {
		return opError(op, ErrCommitConfig, ErrNoCandidate)
	}
	defer d.observe(op, time.Now(), &err)

	log.Infof("%s: committing %s (replace=%t) %s", d.cfg.Name, c.remotePath, c.replace, message)
	if err := d.client.LoadConfig(ctx, c.remotePath, !c.replace); err != nil {
		return opError(op, ErrCommitConfig, err)
	}
	if err := d.client.SaveConfig(ctx); err != nil {
		return opError(op, ErrCommitConfig, err)
	}
	d.candidate = nil
	return nil
}

// DiscardConfig removes the staged candidate from the device. Discarding
// without a candidate does nothing.
func (d *Driver) DiscardConfig(ctx context.Context) (err error) {
	const op = "discard_config"
	if err := d.checkOpen(op); err != nil {
		return err
	}
	c := d.candidate
	if c == nil {
		log.Debugf("%s: nothing to discard", d.cfg.Name)
		return nil
	}
	defer d.observe(op, time.Now(), &err)

	if err := d.client.RemoveFile(ctx, c.remotePath); err != nil {
		return opError(op, ErrDiscardConfig, err)
	}
	log.Infof("%s: discarded %s", d.cfg.Name, c.remotePath)
	d.candidate = nil
	return nil
}

// Staged returns the remote path of the staged candidate.
func (d *Driver) Staged() (string, bool) {
	if d.candidate == nil {
		return "", false
	}
	return d.candidate.remotePath, true
}
