package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Runner abstracts executing a version-control binary. Implementations may
// call the real tool or simulate output for tests.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner executes a configured VCS binary (git, p4, svn).
type ExecRunner struct {
	Bin string
}

func NewExecRunner(bin string) *ExecRunner {
	return &ExecRunner{Bin: strings.TrimSpace(bin)}
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if e.Bin == "" {
		return "", fmt.Errorf("vcs binary not configured")
	}
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	var out bytes.Buffer
	var errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s", e.Bin, sanitizeArgs(args), redactTokens(msg))
	}
	return out.String(), nil
}

var safeWord = regexp.MustCompile(`^[a-z][a-z-]*$`)

// sanitizeArgs keeps at most the first two subcommand tokens that look like
// safe words, so error messages never leak paths or URLs.
func sanitizeArgs(args []string) string {
	if len(args) == 0 {
		return "<no-args>"
	}
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeWord.MatchString(a) {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

var (
	credURL   = regexp.MustCompile(`https?://[^\s@]+@`)
	credToken = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// redactTokens removes obvious credential substrings from tool output.
func redactTokens(s string) string {
	s = credURL.ReplaceAllString(s, "https://<redacted>@")
	s = credToken.ReplaceAllString(s, "$1=<redacted>")
	return s
}
