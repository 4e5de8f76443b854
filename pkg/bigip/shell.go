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
	"strconv"
	"strings"
)

const exitStatusMarker = "rc="

// Executor runs shell commands on the device.
type Executor interface {
	Exec(ctx context.Context, command string) (string, error)
}

// CommandError is a shell command that exited with a non-zero status.
type CommandError struct {
	Command string
	Status  int
	Output  string
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.Status)
	}
	return fmt.Sprintf("command %q exited with status %d: %s", e.Command, e.Status, out)
}

// ShellQuote returns s as a single shell word.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Run executes command and checks its exit status. The device reports the
// output of a failed command like any other output, so the status is
// echoed after the command and stripped from the returned output.
func Run(ctx context.Context, e Executor, command string) (string, error) {
	out, err := e.Exec(ctx, command+"; echo "+exitStatusMarker+"$?")
	if err != nil {
		return "", err
	}
	out = strings.TrimRight(out, "\n")
	i := strings.LastIndex(out, exitStatusMarker)
	if i < 0 || (i > 0 && out[i-1] != '\n') {
		return out, fmt.Errorf("no exit status in the output of %q", command)
	}
	status, err := strconv.Atoi(out[i+len(exitStatusMarker):])
	if err != nil {
		return out, fmt.Errorf("bad exit status in the output of %q: %w", command, err)
	}
	out = out[:i]
	if status != 0 {
		return out, &CommandError{Command: command, Status: status, Output: out}
	}
	return out, nil
}
