package bigip

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

type cannedShell struct {
	command string
	out     string
	err     error
}

func (s *cannedShell) Exec(_ context.Context, command string) (string, error) {
	s.command = command
	return s.out, s.err
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "/tmp/candidate.scf", want: `'/tmp/candidate.scf'`},
		{name: "space and separator", in: "/tmp/my candidate;x.scf", want: `'/tmp/my candidate;x.scf'`},
		{name: "single quote", in: "it's.scf", want: `'it'\''s.scf'`},
		{name: "substitution", in: "$(reboot).scf", want: `'$(reboot).scf'`},
		{name: "empty", in: "", want: `''`},
	}
	bash, _ := exec.LookPath("bash")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShellQuote(tt.in)
			if got != tt.want {
				t.Errorf("ShellQuote(%q) = %s, want %s", tt.in, got, tt.want)
			}
			if bash == "" {
				return
			}
			out, err := exec.Command(bash, "-c", "printf %s "+got).Output()
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.in {
				t.Errorf("shell read %s as %q, want %q", got, out, tt.in)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		out        string
		execErr    error
		want       string
		wantStatus int
		wantErr    bool
	}{
		{name: "success", out: "rc=0\n", want: ""},
		{name: "success with output", out: "a\nb\nrc=0\n", want: "a\nb\n"},
		{name: "failure", out: "mv: cannot stat 'x'\nrc=1\n", want: "mv: cannot stat 'x'\n", wantStatus: 1, wantErr: true},
		{name: "missing status", out: "no marker\n", want: "no marker", wantErr: true},
		{name: "marker inside a line", out: "xrc=0", want: "xrc=0", wantErr: true},
		{name: "transport error", execErr: errors.New("connection reset"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &cannedShell{out: tt.out, err: tt.execErr}
			got, err := Run(context.Background(), s, "rm -f '/tmp/a b'")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
			if s.command != "rm -f '/tmp/a b'; echo rc=$?" {
				t.Errorf("executed %q", s.command)
			}
			var cmdErr *CommandError
			if errors.As(err, &cmdErr) != (tt.wantStatus != 0) {
				t.Fatalf("Run() error = %v, want a CommandError: %t", err, tt.wantStatus != 0)
			}
			if cmdErr != nil && cmdErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", cmdErr.Status, tt.wantStatus)
			}
		})
	}
}
