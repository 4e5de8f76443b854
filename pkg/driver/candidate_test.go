package driver

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"syscall"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

func TestDriver_GetConfig(t *testing.T) {
	tests := []struct {
		name    string
		req     GetConfigRequest
		command string
		wantErr error
	}{
		{name: "defaults", req: GetConfigRequest{}, command: "tmsh show running-config"},
		{name: "running", req: GetConfigRequest{Retrieve: "all", Format: "text"}, command: "tmsh show running-config"},
		{name: "recursive", req: GetConfigRequest{Retrieve: "recursive"}, command: "tmsh show running-config recursive"},
		{name: "unknown retrieve", req: GetConfigRequest{Retrieve: "unknown"}, wantErr: ErrNotImplemented},
		{name: "candidate", req: GetConfigRequest{Retrieve: "candidate"}, wantErr: ErrNotImplemented},
		{name: "full", req: GetConfigRequest{Full: true}, wantErr: ErrNotImplemented},
		{name: "sanitized", req: GetConfigRequest{Sanitized: true}, wantErr: ErrNotImplemented},
		{name: "xml", req: GetConfigRequest{Format: "xml"}, wantErr: ErrNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c, _ := newOpenDriver(t)
			if tt.command != "" {
				c.EXPECT().Exec(gomock.Any(), tt.command).Return("ltm pool p { }", nil)
			}
			got, err := d.GetConfig(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}
			if *got != (types.Config{Running: "ltm pool p { }"}) {
				t.Errorf("GetConfig() = %+v", got)
			}
		})
	}
}

func TestDriver_GetConfigNamesValue(t *testing.T) {
	d := New(testDevice())
	_, err := d.GetConfig(context.Background(), GetConfigRequest{Retrieve: "unknown"})
	if err == nil || !strings.Contains(err.Error(), `"unknown"`) {
		t.Errorf("GetConfig() error = %v, want the retrieve value named", err)
	}
	_, err = d.GetConfig(context.Background(), GetConfigRequest{Format: "xml"})
	if err == nil || !strings.Contains(err.Error(), `"xml"`) {
		t.Errorf("GetConfig() error = %v, want the format named", err)
	}
}

func TestDriver_StageDiscard(t *testing.T) {
	ctx := context.Background()
	d, c, up := newOpenDriver(t)

	if err := d.LoadReplaceCandidate(ctx, CandidateSource{Filename: "/home/ops/new.scf"}); err != nil {
		t.Fatalf("LoadReplaceCandidate() error = %v", err)
	}
	if p, ok := d.Staged(); !ok || p != "/var/local/scf/new.scf" {
		t.Errorf("Staged() = %q, %v", p, ok)
	}
	if len(up.uploaded) != 1 || up.uploaded[0] != "/home/ops/new.scf" {
		t.Errorf("uploaded %v", up.uploaded)
	}

	c.EXPECT().RemoveFile(gomock.Any(), "/var/local/scf/new.scf").Return(nil)
	if err := d.DiscardConfig(ctx); err != nil {
		t.Fatalf("DiscardConfig() error = %v", err)
	}
	if _, ok := d.Staged(); ok {
		t.Errorf("candidate still staged after discard")
	}
	// nothing left to commit or discard
	err := d.CommitConfig(ctx, "")
	if !errors.Is(err, ErrCommitConfig) || !errors.Is(err, ErrNoCandidate) {
		t.Errorf("CommitConfig() error = %v, want ErrCommitConfig wrapping ErrNoCandidate", err)
	}
	if err := d.DiscardConfig(ctx); err != nil {
		t.Errorf("DiscardConfig() without candidate error = %v", err)
	}
}

func TestDriver_Commit(t *testing.T) {
	tests := []struct {
		name      string
		stage     func(*Driver, context.Context, CandidateSource) error
		wantMerge bool
	}{
		{name: "replace", stage: (*Driver).LoadReplaceCandidate, wantMerge: false},
		{name: "merge", stage: (*Driver).LoadMergeCandidate, wantMerge: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			d, c, _ := newOpenDriver(t)
			if err := tt.stage(d, ctx, CandidateSource{Filename: "cfg.scf"}); err != nil {
				t.Fatal(err)
			}
			gomock.InOrder(
				c.EXPECT().LoadConfig(gomock.Any(), "/var/local/scf/cfg.scf", tt.wantMerge).Return(nil),
				c.EXPECT().SaveConfig(gomock.Any()).Return(nil),
			)
			if err := d.CommitConfig(ctx, "change 42"); err != nil {
				t.Fatalf("CommitConfig() error = %v", err)
			}
			// the mode of a committed candidate is not reused
			if err := d.CommitConfig(ctx, ""); !errors.Is(err, ErrNoCandidate) {
				t.Errorf("second CommitConfig() error = %v, want ErrNoCandidate", err)
			}
		})
	}
}

func TestDriver_CommitFailure(t *testing.T) {
	ctx := context.Background()
	d, c, _ := newOpenDriver(t)
	if err := d.LoadMergeCandidate(ctx, CandidateSource{Filename: "cfg.scf"}); err != nil {
		t.Fatal(err)
	}
	loadErr := errors.New("01070734:3: Configuration error")
	c.EXPECT().LoadConfig(gomock.Any(), "/var/local/scf/cfg.scf", true).Return(loadErr)
	err := d.CommitConfig(ctx, "")
	if !errors.Is(err, ErrCommitConfig) || !errors.Is(err, loadErr) {
		t.Errorf("CommitConfig() error = %v, want ErrCommitConfig wrapping the device error", err)
	}
	if _, ok := d.Staged(); !ok {
		t.Errorf("failed commit dropped the candidate")
	}

	c.EXPECT().RemoveFile(gomock.Any(), "/var/local/scf/cfg.scf").Return(errors.New("permission denied"))
	if err := d.DiscardConfig(ctx); !errors.Is(err, ErrDiscardConfig) {
		t.Errorf("DiscardConfig() error = %v, want ErrDiscardConfig", err)
	}
}

func TestDriver_StageSupersedes(t *testing.T) {
	ctx := context.Background()
	d, c, _ := newOpenDriver(t)
	if err := d.LoadReplaceCandidate(ctx, CandidateSource{Filename: "a.scf"}); err != nil {
		t.Fatal(err)
	}
	// a failing cleanup of the superseded file does not fail staging
	c.EXPECT().RemoveFile(gomock.Any(), "/var/local/scf/a.scf").Return(errors.New("no such file"))
	if err := d.LoadMergeCandidate(ctx, CandidateSource{Filename: "b.scf"}); err != nil {
		t.Fatalf("LoadMergeCandidate() error = %v", err)
	}
	c.EXPECT().LoadConfig(gomock.Any(), "/var/local/scf/b.scf", true).Return(nil)
	c.EXPECT().SaveConfig(gomock.Any()).Return(nil)
	if err := d.CommitConfig(ctx, ""); err != nil {
		t.Fatalf("CommitConfig() error = %v", err)
	}
}

func TestDriver_StageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("local file", func(t *testing.T) {
		d, _, up := newOpenDriver(t)
		up.err = &fs.PathError{Op: "open", Path: "/home/ops/missing.scf", Err: syscall.ENOENT}
		err := d.LoadReplaceCandidate(ctx, CandidateSource{Filename: "/home/ops/missing.scf"})
		if !errors.Is(err, ErrReplaceConfig) || !errors.Is(err, ErrLocalIO) || !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("LoadReplaceCandidate() error = %v", err)
		}
		var le *LocalIOError
		if !errors.As(err, &le) {
			t.Fatalf("error %v carries no LocalIOError", err)
		}
		if le.Errno != syscall.ENOENT || le.Path != "/home/ops/missing.scf" {
			t.Errorf("LocalIOError = %+v", le)
		}
		if le.Error() != "Error (2): no such file or directory" {
			t.Errorf("LocalIOError.Error() = %q", le.Error())
		}
	})

	t.Run("transport", func(t *testing.T) {
		d, c, up := newOpenDriver(t)
		up.err = errors.New("connection reset by peer")
		err := d.LoadMergeCandidate(ctx, CandidateSource{Filename: "cfg.scf"})
		if !errors.Is(err, ErrMergeConfig) || !errors.Is(err, ErrConnection) {
			t.Fatalf("LoadMergeCandidate() error = %v", err)
		}
		if errors.Is(err, ErrLocalIO) {
			t.Errorf("transport failure reported as local io: %v", err)
		}
		// the partial upload stays discardable
		c.EXPECT().RemoveFile(gomock.Any(), "/var/local/scf/cfg.scf").Return(nil)
		if err := d.DiscardConfig(ctx); err != nil {
			t.Errorf("DiscardConfig() error = %v", err)
		}
	})

	t.Run("relocation failure", func(t *testing.T) {
		d, c, up := newOpenDriver(t)
		up.err = errors.New("mv: cannot move")
		up.leftover = "/var/config/rest/downloads/my candidate.scf"
		err := d.LoadReplaceCandidate(ctx, CandidateSource{Filename: "/home/ops/my candidate.scf"})
		if !errors.Is(err, ErrReplaceConfig) {
			t.Fatalf("LoadReplaceCandidate() error = %v", err)
		}
		if staged, _ := d.Staged(); staged != up.leftover {
			t.Errorf("Staged() = %q, want %q", staged, up.leftover)
		}
		c.EXPECT().RemoveFile(gomock.Any(), up.leftover).Return(nil)
		if err := d.DiscardConfig(ctx); err != nil {
			t.Errorf("DiscardConfig() error = %v", err)
		}
	})

	t.Run("inline config", func(t *testing.T) {
		d, _, _ := newOpenDriver(t)
		err := d.LoadReplaceCandidate(ctx, CandidateSource{Config: "ltm pool p { }"})
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("LoadReplaceCandidate() error = %v, want ErrNotImplemented", err)
		}
	})

	t.Run("missing filename", func(t *testing.T) {
		d, _, _ := newOpenDriver(t)
		if err := d.LoadMergeCandidate(ctx, CandidateSource{}); !errors.Is(err, ErrMergeConfig) {
			t.Errorf("LoadMergeCandidate() error = %v, want ErrMergeConfig", err)
		}
	})
}
