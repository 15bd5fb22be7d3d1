// Package process starts the external programs the game list hands work to.
package process

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"gamelist/internal/log"

	"github.com/skratchdot/open-golang/open"
)

// Process is a started external program
type Process interface {
	// Wait blocks until the program exits
	Wait() error
}

// Runner starts external programs
type Runner interface {
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// ExecRunner runs programs with os/exec. The process is killed when ctx ends.
type ExecRunner struct{}

func (ExecRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	log.LogWithFields(log.F("command", name), log.F("pid", cmd.Process.Pid)).Debug("Started process")
	return &execProcess{cmd: cmd, stderr: &stderr}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stderr *strings.Builder
}

func (p *execProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Opener opens URLs with the desktop's default handler, without waiting for
// it to exit. Start defaults to open.Start.
type Opener struct {
	Start func(target string) error
}

func (o Opener) OpenURL(u *url.URL) error {
	target := u.String()
	if u.Scheme == "file" {
		// Some handlers reject file URLs with an empty host
		target = u.Path
	}
	return o.open(target)
}

func (o Opener) open(target string) error {
	start := o.Start
	if start == nil {
		start = open.Start
	}
	if err := start(target); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	log.LogWithFields(log.F("target", target)).Debug("Opened with desktop handler")
	return nil
}
