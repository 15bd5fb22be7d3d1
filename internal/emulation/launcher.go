package emulation

import (
	"context"
	"sync"

	"gamelist/internal/errors"
	"gamelist/internal/log"
	"gamelist/internal/process"
)

// Launcher boots games in the emulator and keeps State current
type Launcher struct {
	runner   process.Runner
	state    *State
	emulator string
	args     []string
}

// NewLauncher creates a launcher running emulator with args followed by
// the game path.
func NewLauncher(runner process.Runner, state *State, emulator string, args []string) *Launcher {
	return &Launcher{runner: runner, state: state, emulator: emulator, args: args}
}

// Launch starts path in the emulator. It returns once the emulator has
// started; State flips back to stopped when it exits. Only one game runs
// at a time. Cancelling ctx after Launch returns leaves the emulator running.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	if l.state.IsRunning() {
		return errors.NewOperationError("launch", path, errors.InvalidOperation, errors.New("a game is already running"))
	}
	if l.emulator == "" {
		return errors.NewConfigError("no emulator configured", "core.emulator", errors.ConfigNotSet, nil)
	}

	args := append(append([]string(nil), l.args...), path)
	proc, err := l.runner.Start(context.WithoutCancel(ctx), l.emulator, args...)
	if err != nil {
		return errors.NewOperationError("launch", path, errors.OperationFailed, err)
	}

	l.state.SetRunning(true)
	logger := log.LogWithFields(log.F("game", path))
	logger.Info("Emulation started")

	go func() {
		if err := proc.Wait(); err != nil {
			logger.Warnf("emulator exited: %v", err)
		}
		l.state.SetRunning(false)
		logger.Info("Emulation stopped")
	}()
	return nil
}

// Wait blocks until no game is running or ctx ends
func (l *Launcher) Wait(ctx context.Context) error {
	stopped := make(chan struct{})
	var once sync.Once
	unsub := l.state.Subscribe(func(running bool) {
		if !running {
			once.Do(func() { close(stopped) })
		}
	})
	defer unsub()

	if !l.state.IsRunning() {
		return nil
	}
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
